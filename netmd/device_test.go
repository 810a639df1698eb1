package netmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softmd/pkg"
)

func TestNewDevice(t *testing.T) {
	mock := &mockCommander{}
	dev := NewDevice(mock, nil, nil)

	require.NotNil(t, dev)
	assert.Equal(t, Commander(mock), dev.cmd)
	assert.NotNil(t, dev.ops)
}

func TestDevice_Status(t *testing.T) {
	mock := &mockCommander{
		statusData:   statusLoaded,
		playbackData: playbackBytes(50037),
		posData:      PositionData{2, 0, 0, 30, 12},
		posOK:        true,
	}
	dev := NewDevice(mock, nil, nil)

	ds, err := dev.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, ds.DiscPresent)
	assert.Equal(t, StatePlaying, ds.State)
	require.NotNil(t, ds.Track)
	assert.Equal(t, 2, *ds.Track)
	require.NotNil(t, ds.Time)
	assert.Equal(t, TimeCode{Second: 30, Frame: 12}, *ds.Time)
}

func TestDevice_Status_NoPositionReading(t *testing.T) {
	mock := &mockCommander{
		statusData:   statusLoaded,
		playbackData: playbackBytes(50687),
		posOK:        false,
	}
	dev := NewDevice(mock, nil, nil)

	ds, err := dev.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateReady, ds.State)
	assert.Nil(t, ds.Track)
	assert.Nil(t, ds.Time)
}

func TestDevice_Status_ReadErrors(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name   string
		inject func(*mockCommander)
	}{
		{"status", func(m *mockCommander) { m.statusErr = errBoom }},
		{"playback status", func(m *mockCommander) { m.playbackErr = errBoom }},
		{"position", func(m *mockCommander) { m.posErr = errBoom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCommander{
				statusData:   statusLoaded,
				playbackData: playbackBytes(50687),
			}
			tt.inject(mock)

			_, err := NewDevice(mock, nil, nil).Status(context.Background())
			assert.ErrorIs(t, err, errBoom)
		})
	}
}

func TestDevice_Contents(t *testing.T) {
	dev := NewDevice(newContentMock(), nil, nil)

	disc, err := dev.Contents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Road Tapes", disc.Title)
	assert.Equal(t, 3, disc.CountTracks())
}

func TestDevice_BusyHandle(t *testing.T) {
	mock := &mockCommander{}
	dev := NewDevice(mock, nil, nil)

	require.NoError(t, dev.begin())
	defer dev.end()

	_, err := dev.Status(context.Background())
	assert.ErrorIs(t, err, pkg.ErrBusy)

	_, err = dev.Contents(context.Background())
	assert.ErrorIs(t, err, pkg.ErrBusy)

	assert.Empty(t, mock.calls)
}

func TestDevice_HandleFreeAfterOperation(t *testing.T) {
	mock := &mockCommander{
		statusData:   statusLoaded,
		playbackData: playbackBytes(50687),
	}
	dev := NewDevice(mock, nil, nil)

	_, err := dev.Status(context.Background())
	require.NoError(t, err)

	// The guard must be released even after an error.
	mock.statusErr = errors.New("boom")
	_, err = dev.Status(context.Background())
	require.Error(t, err)

	mock.statusErr = nil
	_, err = dev.Status(context.Background())
	assert.NoError(t, err)
}
