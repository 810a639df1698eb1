// Package pkg provides shared utilities for the softmd NetMD control stack.
//
// This package contains common functionality used across the library:
//
//   - Component-scoped structured logging built on [github.com/rs/zerolog]
//   - Sentinel error values for NetMD protocol and device conditions
//
// # Logging
//
// The logging subsystem hands out child loggers tagged with a component
// name so output can be filtered per subsystem:
//
//	pkg.Configure(pkg.Config{Level: "debug"})
//	log := pkg.WithComponent(pkg.ComponentSession)
//	log.Debug().Int("track", 3).Msg("transfer started")
//
// # Errors
//
// Common device conditions are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrBusy) {
//	    // Another operation is in flight on this handle
//	}
package pkg
