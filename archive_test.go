package ulog

import (
	"bytes"
	"testing"

	"github.com/px4go/ulog/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstd_RoundTrip(t *testing.T) {
	var plain bytes.Buffer
	plain.Write(fileHeader(0, 100))
	plain.Write(record(section.TagFormat, []byte("ping:uint64_t timestamp;float x;")))

	m, err := OpenBytes(plain.Bytes())
	require.NoError(t, err)

	var compressed bytes.Buffer
	require.NoError(t, WriteZstd(m, &compressed))

	reparsed, err := OpenZstd(&compressed)
	require.NoError(t, err)
	assert.True(t, m.Equal(reparsed))
}

func TestLZ4_RoundTrip(t *testing.T) {
	var plain bytes.Buffer
	plain.Write(fileHeader(0, 100))
	plain.Write(record(section.TagFormat, []byte("ping:uint64_t timestamp;float x;")))

	m, err := OpenBytes(plain.Bytes())
	require.NoError(t, err)

	var compressed bytes.Buffer
	require.NoError(t, WriteLZ4(m, &compressed))

	reparsed, err := OpenLZ4(&compressed)
	require.NoError(t, err)
	assert.True(t, m.Equal(reparsed))
}
