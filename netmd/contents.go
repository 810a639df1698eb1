package netmd

import (
	"context"
	"fmt"

	"github.com/ardnew/softmd/pkg"
)

// ReadDisc queries the recorder through cmd and assembles a complete
// snapshot of the loaded disc. Disc-level reads come first, then the
// group layout, then four metadata reads per track in group order.
//
// Every read must succeed: any failure aborts the whole enumeration, so
// the caller sees either a complete, consistent Disc or an error. The
// recorder's state is assumed stable for the duration of one pass.
func ReadDisc(ctx context.Context, cmd Commander) (*Disc, error) {
	log := pkg.WithComponent(pkg.ComponentContents)

	flags, err := cmd.DiscFlags(ctx)
	if err != nil {
		return nil, fmt.Errorf("read disc flags: %w", err)
	}

	title, err := cmd.DiscTitle(ctx)
	if err != nil {
		return nil, fmt.Errorf("read disc title: %w", err)
	}

	capacity, err := cmd.DiscCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("read disc capacity: %w", err)
	}

	count, err := cmd.TrackCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("read track count: %w", err)
	}

	groups, err := cmd.TrackGroupList(ctx)
	if err != nil {
		return nil, fmt.Errorf("read track group list: %w", err)
	}

	disc := &Disc{
		Title:          title,
		Writable:       flags.Writable,
		WriteProtected: flags.WriteProtected,
		Used:           capacity.Recorded.Frames(),
		Left:           capacity.Available.Frames(),
		Total:          capacity.Total.Frames(),
		TrackCount:     count,
		Groups:         make([]Group, 0, len(groups)),
	}

	for gi, entry := range groups {
		group := Group{
			Index:  gi,
			Title:  entry.Title,
			Tracks: make([]Track, 0, len(entry.Tracks)),
		}
		for _, slot := range entry.Tracks {
			track, err := readTrack(ctx, cmd, slot)
			if err != nil {
				return nil, err
			}
			group.Tracks = append(group.Tracks, track)
		}
		disc.Groups = append(disc.Groups, group)
	}

	log.Debug().
		Int("groups", len(disc.Groups)).
		Int("tracks", disc.CountTracks()).
		Msg("disc snapshot assembled")

	return disc, nil
}

// readTrack issues the four per-track metadata reads for one slot.
func readTrack(ctx context.Context, cmd Commander, slot int) (Track, error) {
	title, err := cmd.TrackTitle(ctx, slot)
	if err != nil {
		return Track{}, fmt.Errorf("read track %d title: %w", slot, err)
	}

	encoding, channels, err := cmd.TrackEncoding(ctx, slot)
	if err != nil {
		return Track{}, fmt.Errorf("read track %d encoding: %w", slot, err)
	}

	length, err := cmd.TrackLength(ctx, slot)
	if err != nil {
		return Track{}, fmt.Errorf("read track %d length: %w", slot, err)
	}

	protection, err := cmd.TrackFlags(ctx, slot)
	if err != nil {
		return Track{}, fmt.Errorf("read track %d flags: %w", slot, err)
	}

	return Track{
		Index:      slot,
		Title:      title,
		Duration:   length.Frames(),
		Channels:   channels,
		Encoding:   encoding,
		Protection: protection,
	}, nil
}
