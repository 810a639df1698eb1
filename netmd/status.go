package netmd

import "fmt"

// OperatingState is the decoded operating state of the recorder deck.
type OperatingState uint8

// Operating states reported by the recorder.
const (
	StateUnknown OperatingState = iota // Code not in the firmware table
	StateReady                         // Deck idle
	StatePlaying                       // Deck playing
	StateFastForward                   // Deck seeking forward
	StateRewind                        // Deck seeking backward
	StateReadingTOC                    // Deck reading the table of contents
)

// String returns a human-readable state name.
func (s OperatingState) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StateFastForward:
		return "Fast Forward"
	case StateRewind:
		return "Rewind"
	case StateReadingTOC:
		return "Reading TOC"
	default:
		return fmt.Sprintf("Unknown (%d)", s)
	}
}

// Firmware-defined operating status codes, big-endian 16-bit values
// composed from bytes 4 and 5 of the playback status buffer. The table
// is closed: any other code decodes to StateUnknown.
const (
	opStatusReady       = 0xC5FF
	opStatusPlaying     = 0xC375
	opStatusFastForward = 0xC33F
	opStatusRewind      = 0xC34F
	opStatusReadingTOC  = 0xFF23
)

// Disc-present sentinel in the raw status buffer.
const (
	discPresentOffset   = 4
	discPresentSentinel = 0x40
)

// DeviceStatus is a point-in-time snapshot of the recorder's operating
// state. It is derived, never persisted: every query recomputes it from
// fresh raw buffers.
type DeviceStatus struct {
	DiscPresent bool
	State       OperatingState
	Track       *int      // nil when no position reading was available
	Time        *TimeCode // nil when no position reading was available
}

func operatingState(code uint16) OperatingState {
	switch code {
	case opStatusReady:
		return StateReady
	case opStatusPlaying:
		return StatePlaying
	case opStatusFastForward:
		return StateFastForward
	case opStatusRewind:
		return StateRewind
	case opStatusReadingTOC:
		return StateReadingTOC
	default:
		return StateUnknown
	}
}

// DecodeStatus decodes the raw status buffer, playback status buffer,
// and position tuple into a DeviceStatus. It is a pure function of its
// inputs and never fails: short or absent buffers degrade to absent
// fields and StateUnknown. Pass a nil pos when no position reading was
// available.
func DecodeStatus(status, playback []byte, pos PositionData) DeviceStatus {
	var ds DeviceStatus

	if len(status) > discPresentOffset {
		ds.DiscPresent = status[discPresentOffset] == discPresentSentinel
	}

	if len(playback) > 5 {
		ds.State = operatingState(uint16(playback[4])<<8 | uint16(playback[5]))
	}

	// A deck with no medium loaded can report a stale playing state.
	if ds.State == StatePlaying && !ds.DiscPresent {
		ds.State = StateReady
	}

	if len(pos) > 4 {
		track := int(pos[0])
		ds.Track = &track
		ds.Time = &TimeCode{
			Minute: int(pos[2]),
			Second: int(pos[3]),
			Frame:  int(pos[4]),
		}
	}

	return ds
}
