package netmd

import (
	"context"
	"fmt"
)

// =============================================================================
// Mock Commander for Testing
// =============================================================================

// mockCommander implements Commander against scripted replies.
type mockCommander struct {
	statusData   []byte
	playbackData []byte
	posData      PositionData
	posOK        bool

	discFlags  DiscFlags
	discTitle  string
	capacity   DiscCapacity
	trackCount int
	groups     []GroupEntry

	titles    map[int]*string
	encodings map[int]Encoding
	channels  map[int]Channels
	lengths   map[int]TimeCode
	flags     map[int]Protection

	statusErr     error
	playbackErr   error
	posErr        error
	discFlagsErr  error
	discTitleErr  error
	capacityErr   error
	trackCountErr error
	groupListErr  error
	titleErr      error
	encodingErr   error
	lengthErr     error
	flagsErr      error

	forgetErr  error
	leaveErr   error
	acquireErr error
	releaseErr error
	protectErr error

	calls []string
}

func (m *mockCommander) record(name string) {
	m.calls = append(m.calls, name)
}

// count returns how many times the named command was invoked.
func (m *mockCommander) count(name string) int {
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockCommander) Status(ctx context.Context) ([]byte, error) {
	m.record("status")
	return m.statusData, m.statusErr
}

func (m *mockCommander) PlaybackStatus2(ctx context.Context) ([]byte, error) {
	m.record("playbackStatus2")
	return m.playbackData, m.playbackErr
}

func (m *mockCommander) Position(ctx context.Context) (PositionData, bool, error) {
	m.record("position")
	return m.posData, m.posOK, m.posErr
}

func (m *mockCommander) DiscFlags(ctx context.Context) (DiscFlags, error) {
	m.record("discFlags")
	return m.discFlags, m.discFlagsErr
}

func (m *mockCommander) DiscTitle(ctx context.Context) (string, error) {
	m.record("discTitle")
	return m.discTitle, m.discTitleErr
}

func (m *mockCommander) DiscCapacity(ctx context.Context) (DiscCapacity, error) {
	m.record("discCapacity")
	return m.capacity, m.capacityErr
}

func (m *mockCommander) TrackCount(ctx context.Context) (int, error) {
	m.record("trackCount")
	return m.trackCount, m.trackCountErr
}

func (m *mockCommander) TrackGroupList(ctx context.Context) ([]GroupEntry, error) {
	m.record("trackGroupList")
	return m.groups, m.groupListErr
}

func (m *mockCommander) TrackTitle(ctx context.Context, track int) (*string, error) {
	m.record(fmt.Sprintf("trackTitle %d", track))
	return m.titles[track], m.titleErr
}

func (m *mockCommander) TrackEncoding(ctx context.Context, track int) (Encoding, Channels, error) {
	m.record(fmt.Sprintf("trackEncoding %d", track))
	return m.encodings[track], m.channels[track], m.encodingErr
}

func (m *mockCommander) TrackLength(ctx context.Context, track int) (TimeCode, error) {
	m.record(fmt.Sprintf("trackLength %d", track))
	return m.lengths[track], m.lengthErr
}

func (m *mockCommander) TrackFlags(ctx context.Context, track int) (Protection, error) {
	m.record(fmt.Sprintf("trackFlags %d", track))
	return m.flags[track], m.flagsErr
}

func (m *mockCommander) ForgetSecureKey(ctx context.Context) error {
	m.record("forgetSecureKey")
	return m.forgetErr
}

func (m *mockCommander) LeaveSecureSession(ctx context.Context) error {
	m.record("leaveSecureSession")
	return m.leaveErr
}

func (m *mockCommander) AcquireExclusive(ctx context.Context) error {
	m.record("acquireExclusive")
	return m.acquireErr
}

func (m *mockCommander) ReleaseExclusive(ctx context.Context) error {
	m.record("releaseExclusive")
	return m.releaseErr
}

func (m *mockCommander) DisableNewTrackProtection(ctx context.Context) error {
	m.record("disableNewTrackProtection")
	return m.protectErr
}

// Ensure mockCommander implements Commander
var _ Commander = (*mockCommander)(nil)

// =============================================================================
// Mock Session Transport for Testing
// =============================================================================

// mockSession implements SessionTransport with scripted results and a
// replayable progress sequence.
type mockSession struct {
	handshakeErr error
	sendErr      error
	closeErr     error

	result  DownloadResult
	reports []Progress

	handshakes int
	sends      int
	closes     int
}

func (m *mockSession) Handshake(ctx context.Context) error {
	m.handshakes++
	return m.handshakeErr
}

func (m *mockSession) SendTrack(ctx context.Context, payload TrackPayload, observer ProgressFunc) (DownloadResult, error) {
	m.sends++
	if m.sendErr != nil {
		return DownloadResult{}, m.sendErr
	}
	if observer != nil {
		for _, p := range m.reports {
			observer(p)
		}
	}
	return m.result, nil
}

func (m *mockSession) Close(ctx context.Context) error {
	m.closes++
	return m.closeErr
}

// factory returns a SessionFactory handing out this mock.
func (m *mockSession) factory() SessionFactory {
	return func(Commander, KeyBlockSource) SessionTransport {
		return m
	}
}

// Ensure mockSession implements SessionTransport
var _ SessionTransport = (*mockSession)(nil)

// staticKeys is a trivial KeyBlockSource for tests.
type staticKeys []byte

func (k staticKeys) EnablingKeyBlock(ctx context.Context) ([]byte, error) {
	return []byte(k), nil
}

var _ KeyBlockSource = staticKeys(nil)

// strptr returns a pointer to s.
func strptr(s string) *string {
	return &s
}
