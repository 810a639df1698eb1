package netmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/ardnew/softmd/pkg"
)

// Device is a handle to one NetMD recorder. It binds the command surface
// to the decoding and session logic, and serializes operations: a handle
// supports one in-flight operation at a time, and overlapping calls fail
// with [pkg.ErrBusy] rather than interleaving exchanges on the wire.
type Device struct {
	cmd      Commander
	keys     KeyBlockSource
	sessions SessionFactory

	ops *semaphore.Weighted
	log zerolog.Logger
}

// NewDevice creates a device handle over the given command surface.
// keys and sessions are only needed for Download and may be nil for
// read-only use.
func NewDevice(cmd Commander, keys KeyBlockSource, sessions SessionFactory) *Device {
	return &Device{
		cmd:      cmd,
		keys:     keys,
		sessions: sessions,
		ops:      semaphore.NewWeighted(1),
		log:      pkg.WithComponent(pkg.ComponentDevice),
	}
}

// begin claims the handle for one operation.
func (d *Device) begin() error {
	if !d.ops.TryAcquire(1) {
		return pkg.ErrBusy
	}
	return nil
}

// end releases the handle.
func (d *Device) end() {
	d.ops.Release(1)
}

// Status queries the recorder and decodes its current operating state.
// The snapshot is recomputed from fresh raw buffers on every call.
func (d *Device) Status(ctx context.Context) (DeviceStatus, error) {
	if err := d.begin(); err != nil {
		return DeviceStatus{}, err
	}
	defer d.end()

	status, err := d.cmd.Status(ctx)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("read status: %w", err)
	}

	playback, err := d.cmd.PlaybackStatus2(ctx)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("read playback status: %w", err)
	}

	pos, ok, err := d.cmd.Position(ctx)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("read position: %w", err)
	}
	if !ok {
		pos = nil
	}

	ds := DecodeStatus(status, playback, pos)
	d.log.Debug().
		Stringer("state", ds.State).
		Bool("discPresent", ds.DiscPresent).
		Msg("status decoded")
	return ds, nil
}

// Contents enumerates the loaded disc and returns a complete snapshot.
func (d *Device) Contents(ctx context.Context) (*Disc, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	defer d.end()

	return ReadDisc(ctx, d.cmd)
}
