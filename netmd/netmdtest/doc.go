// Package netmdtest provides an in-memory scripted recorder for tests
// and examples.
//
// Recorder implements [netmd.Commander] against a scripted disc layout,
// and its Sessions factory provides a [netmd.SessionTransport] that
// drains the payload with chunked progress reporting. Error injection
// fields allow exercising every failure branch of the download state
// machine without hardware.
package netmdtest
