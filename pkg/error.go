package pkg

import "errors"

// NetMD protocol and device errors.
var (
	// ErrBusy indicates another operation is already in flight on the handle.
	ErrBusy = errors.New("operation already in flight")

	// ErrNoDevice indicates the recorder is not present.
	ErrNoDevice = errors.New("device not present")

	// ErrNoDisc indicates no disc is loaded in the recorder.
	ErrNoDisc = errors.New("no disc loaded")

	// ErrNotSupported indicates the device firmware does not implement the command.
	ErrNotSupported = errors.New("not supported by device firmware")

	// ErrRejected indicates the device rejected the command.
	ErrRejected = errors.New("command rejected")

	// ErrSessionNotKeyed indicates the secure session has not completed its handshake.
	ErrSessionNotKeyed = errors.New("secure session not keyed")

	// ErrSessionClosed indicates the secure session has already been closed.
	ErrSessionClosed = errors.New("secure session closed")
)
