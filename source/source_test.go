package source

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSource_ReadExact(t *testing.T) {
	s := NewBuffer([]byte("0123456789"))

	b, err := s.ReadExact(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), b)
	assert.Equal(t, int64(4), s.Tell())

	b, err = s.ReadExact(100)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []byte("456789"), b)

	_, err = s.ReadExact(1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBufferSource_SeekAndSize(t *testing.T) {
	s := NewBuffer([]byte("0123456789"))
	assert.Equal(t, int64(10), s.Size())

	off, err := s.Seek(-3, SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(7), off)

	b, err := s.ReadExact(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("789"), b)

	_, err = s.Seek(2, SeekStart)
	require.NoError(t, err)
	off, err = s.Seek(1, SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), off)

	_, err = s.Seek(-1, 99)
	assert.Error(t, err)
}

func TestReadSeekerSource(t *testing.T) {
	r := bytes.NewReader([]byte("hello world"))
	s := NewReadSeeker(r)

	assert.Equal(t, int64(11), s.Size())

	b, err := s.ReadExact(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)
	assert.Equal(t, int64(5), s.Tell())

	_, err = s.Seek(0, SeekStart)
	require.NoError(t, err)
	b, err = s.ReadExact(100)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []byte("hello world"), b)
}
