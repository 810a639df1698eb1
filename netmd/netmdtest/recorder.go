package netmdtest

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/ardnew/softmd/netmd"
	"github.com/ardnew/softmd/pkg"
)

// progressChunkSize is the payload granularity between progress reports.
const progressChunkSize = 16 * 1024

// ScriptTrack describes one track of a scripted disc.
type ScriptTrack struct {
	Title      string // "" means untitled
	Length     netmd.TimeCode
	Channels   netmd.Channels
	Encoding   netmd.Encoding
	Protection netmd.Protection
}

// ScriptGroup describes one group of a scripted disc. Track slots are
// assigned in declaration order across all groups.
type ScriptGroup struct {
	Title  string // "" means unnamed
	Tracks []ScriptTrack
}

// Recorder is an in-memory recorder implementing [netmd.Commander]
// against a scripted disc. The zero value is not usable; construct with
// NewRecorder.
//
// Error injection fields, when non-nil, are returned by the matching
// command. ReadErr applies to every disc and track metadata read.
type Recorder struct {
	// Raw buffers returned by the status queries.
	StatusData   []byte
	PlaybackData []byte
	PositionData netmd.PositionData // nil means no reading available

	// Error injection.
	ReadErr    error
	ForgetErr  error
	LeaveErr   error
	AcquireErr error
	ReleaseErr error
	ProtectErr error

	// Handshake and transfer error injection for scripted sessions.
	HandshakeErr error
	SendErr      error
	CloseErr     error

	// Calls journals every command in invocation order.
	Calls []string

	title    string
	flags    netmd.DiscFlags
	capacity netmd.DiscCapacity
	groups   []netmd.GroupEntry
	tracks   []ScriptTrack

	exclusive bool
}

// NewRecorder creates a recorder holding a writable disc with the given
// title and group layout. Status buffers default to a loaded disc in the
// ready state.
func NewRecorder(title string, groups []ScriptGroup) *Recorder {
	r := &Recorder{
		StatusData:   []byte{0x09, 0x80, 0x00, 0x00, 0x40, 0x00},
		PlaybackData: []byte{0x0C, 0x80, 0x00, 0x00, 0xC5, 0xFF},
		title:        title,
		flags:        netmd.DiscFlags{Writable: true},
	}

	slot := 0
	for _, g := range groups {
		entry := netmd.GroupEntry{Title: optional(g.Title)}
		for _, t := range g.Tracks {
			entry.Tracks = append(entry.Tracks, slot)
			r.tracks = append(r.tracks, t)
			slot++
		}
		r.groups = append(r.groups, entry)
	}

	// 80-minute medium; recorded time is the sum of track lengths.
	recorded := 0
	for _, t := range r.tracks {
		recorded += t.Length.Frames()
	}
	total := netmd.TimeCode{Minute: 80}
	r.capacity = netmd.DiscCapacity{
		Recorded:  frameTime(recorded),
		Available: frameTime(total.Frames() - recorded),
		Total:     total,
	}

	return r
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// frameTime converts a frame count back to a minute/second/frame time code.
func frameTime(frames int) netmd.TimeCode {
	return netmd.TimeCode{
		Minute: frames / (60 * netmd.FramesPerSecond),
		Second: frames / netmd.FramesPerSecond % 60,
		Frame:  frames % netmd.FramesPerSecond,
	}
}

func (r *Recorder) record(name string) {
	r.Calls = append(r.Calls, name)
}

func (r *Recorder) track(slot int) (ScriptTrack, error) {
	if r.ReadErr != nil {
		return ScriptTrack{}, r.ReadErr
	}
	if slot < 0 || slot >= len(r.tracks) {
		return ScriptTrack{}, fmt.Errorf("track %d: %w", slot, pkg.ErrRejected)
	}
	return r.tracks[slot], nil
}

// Status implements netmd.Commander.
func (r *Recorder) Status(ctx context.Context) ([]byte, error) {
	r.record("status")
	return r.StatusData, r.ReadErr
}

// PlaybackStatus2 implements netmd.Commander.
func (r *Recorder) PlaybackStatus2(ctx context.Context) ([]byte, error) {
	r.record("playbackStatus2")
	return r.PlaybackData, r.ReadErr
}

// Position implements netmd.Commander.
func (r *Recorder) Position(ctx context.Context) (netmd.PositionData, bool, error) {
	r.record("position")
	if r.ReadErr != nil {
		return nil, false, r.ReadErr
	}
	return r.PositionData, r.PositionData != nil, nil
}

// DiscFlags implements netmd.Commander.
func (r *Recorder) DiscFlags(ctx context.Context) (netmd.DiscFlags, error) {
	r.record("discFlags")
	return r.flags, r.ReadErr
}

// DiscTitle implements netmd.Commander.
func (r *Recorder) DiscTitle(ctx context.Context) (string, error) {
	r.record("discTitle")
	return r.title, r.ReadErr
}

// DiscCapacity implements netmd.Commander.
func (r *Recorder) DiscCapacity(ctx context.Context) (netmd.DiscCapacity, error) {
	r.record("discCapacity")
	return r.capacity, r.ReadErr
}

// TrackCount implements netmd.Commander.
func (r *Recorder) TrackCount(ctx context.Context) (int, error) {
	r.record("trackCount")
	return len(r.tracks), r.ReadErr
}

// TrackGroupList implements netmd.Commander.
func (r *Recorder) TrackGroupList(ctx context.Context) ([]netmd.GroupEntry, error) {
	r.record("trackGroupList")
	return r.groups, r.ReadErr
}

// TrackTitle implements netmd.Commander.
func (r *Recorder) TrackTitle(ctx context.Context, track int) (*string, error) {
	r.record(fmt.Sprintf("trackTitle %d", track))
	t, err := r.track(track)
	if err != nil {
		return nil, err
	}
	return optional(t.Title), nil
}

// TrackEncoding implements netmd.Commander.
func (r *Recorder) TrackEncoding(ctx context.Context, track int) (netmd.Encoding, netmd.Channels, error) {
	r.record(fmt.Sprintf("trackEncoding %d", track))
	t, err := r.track(track)
	if err != nil {
		return 0, 0, err
	}
	return t.Encoding, t.Channels, nil
}

// TrackLength implements netmd.Commander.
func (r *Recorder) TrackLength(ctx context.Context, track int) (netmd.TimeCode, error) {
	r.record(fmt.Sprintf("trackLength %d", track))
	t, err := r.track(track)
	if err != nil {
		return netmd.TimeCode{}, err
	}
	return t.Length, nil
}

// TrackFlags implements netmd.Commander.
func (r *Recorder) TrackFlags(ctx context.Context, track int) (netmd.Protection, error) {
	r.record(fmt.Sprintf("trackFlags %d", track))
	t, err := r.track(track)
	if err != nil {
		return 0, err
	}
	return t.Protection, nil
}

// ForgetSecureKey implements netmd.Commander.
func (r *Recorder) ForgetSecureKey(ctx context.Context) error {
	r.record("forgetSecureKey")
	return r.ForgetErr
}

// LeaveSecureSession implements netmd.Commander.
func (r *Recorder) LeaveSecureSession(ctx context.Context) error {
	r.record("leaveSecureSession")
	return r.LeaveErr
}

// AcquireExclusive implements netmd.Commander.
func (r *Recorder) AcquireExclusive(ctx context.Context) error {
	r.record("acquireExclusive")
	if r.AcquireErr != nil {
		return r.AcquireErr
	}
	if r.exclusive {
		return pkg.ErrRejected
	}
	r.exclusive = true
	return nil
}

// ReleaseExclusive implements netmd.Commander.
func (r *Recorder) ReleaseExclusive(ctx context.Context) error {
	r.record("releaseExclusive")
	if r.ReleaseErr != nil {
		return r.ReleaseErr
	}
	r.exclusive = false
	return nil
}

// DisableNewTrackProtection implements netmd.Commander.
func (r *Recorder) DisableNewTrackProtection(ctx context.Context) error {
	r.record("disableNewTrackProtection")
	return r.ProtectErr
}

// Exclusive reports whether the recorder is currently held exclusively.
func (r *Recorder) Exclusive() bool {
	return r.exclusive
}

// CallCount returns how many times the named command was invoked.
func (r *Recorder) CallCount(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}
	return n
}

var _ netmd.Commander = (*Recorder)(nil)

// StaticKeyBlock is a fixed enabling key block.
type StaticKeyBlock []byte

// EnablingKeyBlock implements netmd.KeyBlockSource.
func (k StaticKeyBlock) EnablingKeyBlock(ctx context.Context) ([]byte, error) {
	return []byte(k), nil
}

var _ netmd.KeyBlockSource = StaticKeyBlock(nil)

// Sessions returns a session factory producing scripted session
// transports bound to this recorder. The scripted handshake fails when
// no key-block source is supplied or when HandshakeErr is set.
func (r *Recorder) Sessions() netmd.SessionFactory {
	return func(cmd netmd.Commander, keys netmd.KeyBlockSource) netmd.SessionTransport {
		return &scriptSession{recorder: r, keys: keys}
	}
}

// scriptSession is the scripted SessionTransport backing Sessions.
type scriptSession struct {
	recorder *Recorder
	keys     netmd.KeyBlockSource
}

func (s *scriptSession) Handshake(ctx context.Context) error {
	s.recorder.record("handshake")
	if s.recorder.HandshakeErr != nil {
		return s.recorder.HandshakeErr
	}
	if s.keys == nil {
		return pkg.ErrRejected
	}
	if _, err := s.keys.EnablingKeyBlock(ctx); err != nil {
		return err
	}
	return nil
}

func (s *scriptSession) SendTrack(ctx context.Context, payload netmd.TrackPayload, observer netmd.ProgressFunc) (netmd.DownloadResult, error) {
	s.recorder.record("sendTrack")
	if s.recorder.SendErr != nil {
		return netmd.DownloadResult{}, s.recorder.SendErr
	}

	var written int64
	if payload.Data != nil {
		buf := make([]byte, progressChunkSize)
		for {
			n, err := payload.Data.Read(buf)
			if n > 0 {
				written += int64(n)
				if observer != nil && written < payload.TotalBytes {
					observer(netmd.Progress{Written: written, Total: payload.TotalBytes})
				}
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return netmd.DownloadResult{}, err
			}
		}
	}
	if written != payload.TotalBytes {
		return netmd.DownloadResult{}, fmt.Errorf("payload size %d != declared %d: %w",
			written, payload.TotalBytes, pkg.ErrRejected)
	}
	if observer != nil {
		observer(netmd.Progress{Written: written, Total: payload.TotalBytes})
	}

	ccid := make([]byte, 8)
	binary.BigEndian.PutUint64(ccid, uint64(payload.TotalBytes))

	return netmd.DownloadResult{
		Index:     len(s.recorder.tracks),
		ContentID: uuid.New(),
		CCID:      ccid,
	}, nil
}

func (s *scriptSession) Close(ctx context.Context) error {
	s.recorder.record("sessionClose")
	return s.recorder.CloseErr
}

var _ netmd.SessionTransport = (*scriptSession)(nil)
