package netmd

import (
	"context"
)

// Transport performs raw command/response exchange with a recorder over
// USB. Implementations handle framing, polling, and timeouts; the rest
// of the library never touches the wire directly.
type Transport interface {
	// Open prepares the transport for exchange.
	Open(ctx context.Context) error

	// Close releases the transport. After Close returns, the transport
	// must not be used.
	Close() error

	// Send writes one raw command to the recorder.
	Send(ctx context.Context, cmd []byte) error

	// Receive reads one raw response into buf and returns the number of
	// bytes read.
	Receive(ctx context.Context, buf []byte) (int, error)
}

// PositionData is the raw playback position tuple reported by the
// recorder. Byte 0 carries the current track slot; bytes 2, 3, and 4
// carry the minute, second, and frame within the track.
type PositionData []byte

// DiscFlags describes the writability of the loaded disc.
type DiscFlags struct {
	Writable       bool // Medium supports recording
	WriteProtected bool // Write-protect tab is set
}

// DiscCapacity is the recorded/available/total capacity triple reported
// by the recorder, in the medium's native time representation.
type DiscCapacity struct {
	Recorded  TimeCode
	Available TimeCode
	Total     TimeCode
}

// GroupEntry is one entry of the on-disc group layout: an optional group
// title and the device track slots belonging to the group, in order.
// A nil Title denotes an unnamed group.
type GroupEntry struct {
	Title  *string
	Tracks []int
}

// Commander exposes the individual NetMD device operations used by this
// package. Implementations own the binary command encoding and perform
// one command/response exchange per call; all calls are sequential and
// block until the recorder answers.
type Commander interface {
	// Status Queries

	// Status returns the raw device status buffer.
	Status(ctx context.Context) ([]byte, error)

	// PlaybackStatus2 returns the raw two-value playback status buffer.
	PlaybackStatus2(ctx context.Context) ([]byte, error)

	// Position returns the raw playback position tuple. ok reports
	// whether a reading was available; an unavailable position is not an
	// error.
	Position(ctx context.Context) (pos PositionData, ok bool, err error)

	// Disc Metadata

	// DiscFlags returns the writability flags of the loaded disc.
	DiscFlags(ctx context.Context) (DiscFlags, error)

	// DiscTitle returns the disc title.
	DiscTitle(ctx context.Context) (string, error)

	// DiscCapacity returns the recorded/available/total capacity triple.
	DiscCapacity(ctx context.Context) (DiscCapacity, error)

	// TrackCount returns the number of tracks on the disc.
	TrackCount(ctx context.Context) (int, error)

	// TrackGroupList returns the on-disc group layout in group order.
	TrackGroupList(ctx context.Context) ([]GroupEntry, error)

	// Track Metadata

	// TrackTitle returns the title of the given track slot, or nil for
	// an untitled track.
	TrackTitle(ctx context.Context, track int) (*string, error)

	// TrackEncoding returns the encoding and channel layout of the track.
	TrackEncoding(ctx context.Context, track int) (Encoding, Channels, error)

	// TrackLength returns the track duration in the medium's native time
	// representation.
	TrackLength(ctx context.Context, track int) (TimeCode, error)

	// TrackFlags returns the protection state of the track.
	TrackFlags(ctx context.Context, track int) (Protection, error)

	// Exclusive Control and Session State

	// ForgetSecureKey discards any session key material held by the
	// recorder.
	ForgetSecureKey(ctx context.Context) error

	// LeaveSecureSession abandons any secure session open on the
	// recorder.
	LeaveSecureSession(ctx context.Context) error

	// AcquireExclusive requests exclusive control of the recorder.
	AcquireExclusive(ctx context.Context) error

	// ReleaseExclusive releases previously acquired exclusive control.
	ReleaseExclusive(ctx context.Context) error

	// DisableNewTrackProtection clears the protection default applied to
	// newly written tracks. Not all firmware implements this command.
	DisableNewTrackProtection(ctx context.Context) error
}

// KeyBlockSource supplies the enabling key block consumed during the
// secure-session handshake. The key-exchange algorithm built on it lives
// in SessionTransport implementations; this package only carries the
// source through to session construction.
type KeyBlockSource interface {
	// EnablingKeyBlock returns the raw key block material.
	EnablingKeyBlock(ctx context.Context) ([]byte, error)
}

// SessionTransport performs the secure-session handshake and payload
// streaming for a single download. Implementations own the key exchange
// and content encryption; the lifecycle around them is driven by
// SecureSession.
type SessionTransport interface {
	// Handshake performs the key exchange that keys the session.
	Handshake(ctx context.Context) error

	// SendTrack streams one track payload through the keyed session,
	// reporting progress through observer, and returns the identifiers
	// assigned on completion.
	SendTrack(ctx context.Context, payload TrackPayload, observer ProgressFunc) (DownloadResult, error)

	// Close tears down the device-side session state.
	Close(ctx context.Context) error
}

// SessionFactory constructs the session transport for one download,
// binding the command surface and key-block source together. A factory
// is invoked once per download; the returned transport is never reused.
type SessionFactory func(Commander, KeyBlockSource) SessionTransport
