// Package netmd implements the host-side control core for NetMD portable
// MiniDisc recorders.
//
// It is hardware-agnostic and interacts with a recorder via the
// [Commander] interface, which exposes the individual device operations
// (status queries, metadata reads, exclusive control, secure-session
// management). Implementations of Commander own the binary command
// encoding and sit on a raw [Transport]; neither concern appears in this
// package.
//
// # Architecture
//
// The package is organized into three cooperating pieces:
//
//   - DecodeStatus turns raw status/position buffers into a DeviceStatus
//   - ReadDisc walks disc, group, and track structures into a Disc snapshot
//   - Device.Download runs the secure download session state machine
//
// # Content Model
//
// A Disc is an immutable snapshot: it is rebuilt in full on every
// enumeration and never mutated in place. Tracks are partitioned across
// ordered groups; CountTracks and Tracks expose the flattened view.
//
// # Secure Downloads
//
// Download acquires exclusive device control, establishes a secure
// session bound to a [KeyBlockSource], streams the track payload with
// progress reporting, and guarantees teardown (session close, then
// control release) on every exit path. The cryptographic key exchange
// itself is delegated to the [SessionTransport] collaborator.
//
// # Example
//
//	dev := netmd.NewDevice(cmd, keys, sessions)
//
//	status, err := dev.Status(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	disc, err := dev.Contents(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := dev.Download(ctx, payload, func(p netmd.Progress) {
//	    fmt.Printf("%d/%d bytes\n", p.Written, p.Total)
//	})
//
// An in-memory scripted recorder for tests and examples is available in
// [github.com/ardnew/softmd/netmd/netmdtest].
package netmd
