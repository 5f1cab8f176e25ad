package recovery

import (
	"bytes"
	"testing"

	"github.com/px4go/ulog/section"
	"github.com/px4go/ulog/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanForward_FindsMarkerImmediately(t *testing.T) {
	data := append([]byte{}, section.SyncMarker[:]...)
	data = append(data, "trailing"...)

	src := source.NewBuffer(data)

	found, eof, err := ScanForward(src)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, eof)
	assert.Equal(t, int64(len(section.SyncMarker)), src.Tell())
}

func TestScanForward_SkipsGarbageBeforeMarker(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 100)
	data = append(data, section.SyncMarker[:]...)
	data = append(data, "tail"...)

	src := source.NewBuffer(data)

	found, eof, err := ScanForward(src)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, eof)
	assert.Equal(t, int64(100+len(section.SyncMarker)), src.Tell())
}

func TestScanForward_MarkerStraddlesChunkBoundary(t *testing.T) {
	// chunkSize is 512; place the marker so it spans the boundary.
	prefix := bytes.Repeat([]byte{0x00}, chunkSize-4)
	data := append([]byte{}, prefix...)
	data = append(data, section.SyncMarker[:]...)

	src := source.NewBuffer(data)

	found, eof, err := ScanForward(src)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, eof)
	assert.Equal(t, int64(len(data)), src.Tell())
}

func TestScanForward_NoMarkerReachesEOF(t *testing.T) {
	data := bytes.Repeat([]byte{0x11}, 2000)
	src := source.NewBuffer(data)

	found, eof, err := ScanForward(src)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, eof)
}

func TestScanForward_EmptySource(t *testing.T) {
	src := source.NewBuffer(nil)

	found, eof, err := ScanForward(src)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, eof)
}

func TestScanBounded_MarkerWithinLimit(t *testing.T) {
	data := append(bytes.Repeat([]byte{0xBB}, 10), section.SyncMarker[:]...)
	src := source.NewBuffer(data)

	found, eof, err := ScanBounded(src, int64(len(data)))
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, eof)
}

func TestScanBounded_MarkerBeyondLimitIsNotFound(t *testing.T) {
	data := append(bytes.Repeat([]byte{0xBB}, 10), section.SyncMarker[:]...)
	src := source.NewBuffer(data)

	found, eof, err := ScanBounded(src, 5)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, eof)
}
