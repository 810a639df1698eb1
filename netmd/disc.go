package netmd

import "fmt"

// FramesPerSecond is the fixed frame clock of the MiniDisc medium.
const FramesPerSecond = 75

// TimeCode is a minute/second/frame time value in the medium's frame
// clock.
type TimeCode struct {
	Minute int
	Second int
	Frame  int
}

// Frames returns the time code as a total frame count.
func (t TimeCode) Frames() int {
	return t.Minute*60*FramesPerSecond + t.Second*FramesPerSecond + t.Frame
}

// String returns the time code in m:ss.ff form.
func (t TimeCode) String() string {
	return fmt.Sprintf("%d:%02d.%02d", t.Minute, t.Second, t.Frame)
}

// Channels is the channel layout of a track.
type Channels uint8

// Channel layouts.
const (
	ChannelsStereo Channels = iota
	ChannelsMono
)

// String returns a human-readable channel layout name.
func (c Channels) String() string {
	switch c {
	case ChannelsStereo:
		return "Stereo"
	case ChannelsMono:
		return "Mono"
	default:
		return fmt.Sprintf("Unknown (%d)", c)
	}
}

// Encoding is the audio encoding of a track.
type Encoding uint8

// Track encodings.
const (
	EncodingSP Encoding = iota
	EncodingLP2
	EncodingLP4
)

// String returns a human-readable encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingSP:
		return "SP"
	case EncodingLP2:
		return "LP2"
	case EncodingLP4:
		return "LP4"
	default:
		return fmt.Sprintf("Unknown (%d)", e)
	}
}

// Protection is the copy-protection state of a track.
type Protection uint8

// Track protection states.
const (
	Unprotected Protection = iota
	Protected
)

// String returns a human-readable protection state name.
func (p Protection) String() string {
	switch p {
	case Unprotected:
		return "Unprotected"
	case Protected:
		return "Protected"
	default:
		return fmt.Sprintf("Unknown (%d)", p)
	}
}

// Track is a read-only projection of one on-device track. Index is the
// device-assigned slot number, stable only until the next structural
// edit of the disc.
type Track struct {
	Index      int
	Title      *string // nil for an untitled track
	Duration   int     // frames
	Channels   Channels
	Encoding   Encoding
	Protection Protection
}

// Group is a named ordering container of tracks. Index is the group's
// position in the disc's group list.
type Group struct {
	Index  int
	Title  *string // nil for an unnamed group
	Tracks []Track
}

// Disc is an immutable snapshot of the loaded medium. It is built fresh
// on every enumeration; a new snapshot replaces the prior one and is
// never mutated in place.
type Disc struct {
	Title          string
	Writable       bool
	WriteProtected bool

	// Capacities in frames.
	Used  int
	Left  int
	Total int

	TrackCount int
	Groups     []Group
}

// CountTracks returns the total number of tracks across all groups.
func (d *Disc) CountTracks() int {
	n := 0
	for i := range d.Groups {
		n += len(d.Groups[i].Tracks)
	}
	return n
}

// Tracks returns the disc's tracks flattened in group order, then track
// order within each group.
func (d *Disc) Tracks() []Track {
	tracks := make([]Track, 0, d.CountTracks())
	for i := range d.Groups {
		tracks = append(tracks, d.Groups[i].Tracks...)
	}
	return tracks
}
