package netmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ardnew/softmd/pkg"
)

// Download errors.
var (
	// ErrNoSessionFactory indicates the device handle was created without
	// a session factory and cannot perform downloads.
	ErrNoSessionFactory = errors.New("no session factory configured")
)

// Progress reports incremental transfer progress.
type Progress struct {
	Written int64 // bytes transferred so far
	Total   int64 // total payload size
}

// ProgressFunc observes transfer progress. It is invoked synchronously
// during the transfer, zero or more times, with strictly increasing
// Written values and a final call where Written equals Total. The
// transfer blocks while the observer runs, so observers must return
// promptly.
type ProgressFunc func(Progress)

// TrackPayload is the content and metadata for one track download.
type TrackPayload struct {
	Title      string
	Encoding   Encoding
	Channels   Channels
	Data       io.Reader
	TotalBytes int64
}

// DownloadResult identifies the track written by a download.
type DownloadResult struct {
	Index     int       // device-assigned track slot
	ContentID uuid.UUID // content identifier supplied by the session
	CCID      []byte    // checksum/content-id value supplied by the session
}

type sessionState uint8

const (
	sessionUninitialized sessionState = iota
	sessionKeyed
	sessionClosed
)

// SecureSession owns the keyed state for a single download. It is
// created per operation and never reused. Close may be called in any
// state and tears down device-side session state at most once.
type SecureSession struct {
	tr    SessionTransport
	state sessionState
	log   zerolog.Logger
}

func newSecureSession(tr SessionTransport) *SecureSession {
	return &SecureSession{
		tr:  tr,
		log: pkg.WithComponent(pkg.ComponentSession),
	}
}

// Init performs the key-exchange handshake, moving the session from
// uninitialized to keyed. Init on an already keyed session is a no-op;
// Init on a closed session fails.
func (s *SecureSession) Init(ctx context.Context) error {
	switch s.state {
	case sessionKeyed:
		return nil
	case sessionClosed:
		return pkg.ErrSessionClosed
	}

	if err := s.tr.Handshake(ctx); err != nil {
		return err
	}
	s.state = sessionKeyed
	s.log.Debug().Msg("session keyed")
	return nil
}

// SendTrack streams one track payload through the keyed session.
func (s *SecureSession) SendTrack(ctx context.Context, payload TrackPayload, observer ProgressFunc) (DownloadResult, error) {
	switch s.state {
	case sessionUninitialized:
		return DownloadResult{}, pkg.ErrSessionNotKeyed
	case sessionClosed:
		return DownloadResult{}, pkg.ErrSessionClosed
	}

	return s.tr.SendTrack(ctx, payload, observer)
}

// Close tears down the session. A keyed session closes its device-side
// state exactly once; an uninitialized session has no device-side state
// and closing it is a no-op. Close is idempotent.
func (s *SecureSession) Close(ctx context.Context) error {
	keyed := s.state == sessionKeyed
	s.state = sessionClosed
	if !keyed {
		return nil
	}
	return s.tr.Close(ctx)
}

// Download writes one track to the recorder through a secure session and
// returns the identifiers assigned by the device.
//
// The operation proceeds in stages: clear any stale session state left
// by a crashed prior run (best-effort), acquire exclusive control
// (required), disable the new-track protection default (best-effort,
// absent on some firmware), establish the secure session, and stream the
// payload with progress reporting through observer.
//
// Once exclusive control is acquired, teardown always runs: the session
// is closed, then control is released, on every exit path. Resource
// release takes priority over error reporting fidelity here — a teardown
// failure is logged and surfaces only when no earlier stage already
// failed, so the original fatal error is always the one returned.
func (d *Device) Download(ctx context.Context, payload TrackPayload, observer ProgressFunc) (DownloadResult, error) {
	if d.sessions == nil {
		return DownloadResult{}, ErrNoSessionFactory
	}
	if err := d.begin(); err != nil {
		return DownloadResult{}, err
	}
	defer d.end()

	return d.download(ctx, payload, observer)
}

func (d *Device) download(ctx context.Context, payload TrackPayload, observer ProgressFunc) (res DownloadResult, err error) {
	log := pkg.WithComponent(pkg.ComponentSession)

	// A previous run may have crashed mid-session and left key material
	// or an open secure session on the device. Clearing either is
	// best-effort: leftovers the device does not actually hold make
	// these commands fail, and that must not block a fresh attempt.
	if cerr := d.cmd.ForgetSecureKey(ctx); cerr != nil {
		log.Debug().Err(cerr).Msg("stale session key forget failed")
	}
	if cerr := d.cmd.LeaveSecureSession(ctx); cerr != nil {
		log.Debug().Err(cerr).Msg("stale secure session leave failed")
	}

	if err = d.cmd.AcquireExclusive(ctx); err != nil {
		return DownloadResult{}, fmt.Errorf("acquire exclusive control: %w", err)
	}

	sess := newSecureSession(d.sessions(d.cmd, d.keys))

	defer func() {
		if cerr := sess.Close(ctx); cerr != nil {
			log.Warn().Err(cerr).Msg("secure session close failed")
			if err == nil {
				err = fmt.Errorf("close secure session: %w", cerr)
			}
		}
		if rerr := d.cmd.ReleaseExclusive(ctx); rerr != nil {
			log.Warn().Err(rerr).Msg("exclusive control release failed")
			if err == nil {
				err = fmt.Errorf("release exclusive control: %w", rerr)
			}
		}
	}()

	// Some firmware variants do not implement this command. Its absence
	// only changes the protection default applied to the new track, so
	// failure must not abort the transfer.
	if cerr := d.cmd.DisableNewTrackProtection(ctx); cerr != nil {
		log.Warn().Err(cerr).Msg("disable new track protection failed")
	}

	if err = sess.Init(ctx); err != nil {
		return DownloadResult{}, fmt.Errorf("establish secure session: %w", err)
	}

	res, err = sess.SendTrack(ctx, payload, observer)
	if err != nil {
		return DownloadResult{}, fmt.Errorf("transfer track: %w", err)
	}

	log.Info().
		Int("track", res.Index).
		Str("contentID", res.ContentID.String()).
		Msg("download complete")

	return res, nil
}
