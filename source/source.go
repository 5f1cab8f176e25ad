// Package source abstracts the readable, seekable byte stream the decoder
// consumes. The decoder only ever needs to read forward and to seek forward
// or backward by at most one message's worth of bytes (to rewind past a
// header it decided not to consume, or to resume after a sync scan), so any
// io.ReadSeeker can back a Source; a fully in-memory variant is provided for
// callers who already have the whole log in a byte slice.
package source

import (
	"errors"
	"io"
)

// Whence mirrors io.Seeker's whence values so callers don't need to import
// "io" just to call Seek.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Source is the contract the decoder uses to pull bytes from an underlying
// stream. Implementations are not required to be safe for concurrent use;
// the decoder holds one exclusively for the duration of a parse.
type Source interface {
	// ReadExact reads exactly n bytes. If fewer than n bytes are available
	// before EOF, it returns the short slice read so far together with
	// io.ErrUnexpectedEOF (or io.EOF if zero bytes were read); the decoder
	// treats either as a clean end of stream, not a hard error.
	ReadExact(n int) ([]byte, error)

	// Tell returns the current absolute offset from the start of the stream.
	Tell() int64

	// Seek repositions the stream and returns the new absolute offset.
	Seek(offset int64, whence int) (int64, error)

	// Size returns the total size of the stream if known, or -1 if not.
	Size() int64
}

// readSeekerSource adapts an io.ReadSeeker to Source.
type readSeekerSource struct {
	rs   io.ReadSeeker
	size int64
}

// NewReadSeeker wraps rs as a Source. If rs also implements io.Seeker to the
// end of stream, the resulting Source reports a known Size(); otherwise
// Size() returns -1.
func NewReadSeeker(rs io.ReadSeeker) Source {
	size := int64(-1)
	if cur, err := rs.Seek(0, io.SeekCurrent); err == nil {
		if end, err := rs.Seek(0, io.SeekEnd); err == nil {
			size = end
			_, _ = rs.Seek(cur, io.SeekStart)
		}
	}

	return &readSeekerSource{rs: rs, size: size}
}

func (s *readSeekerSource) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(s.rs, buf)
	if err != nil {
		return buf[:read], err
	}

	return buf, nil
}

func (s *readSeekerSource) Tell() int64 {
	off, _ := s.rs.Seek(0, io.SeekCurrent)
	return off
}

func (s *readSeekerSource) Seek(offset int64, whence int) (int64, error) {
	return s.rs.Seek(offset, whence)
}

func (s *readSeekerSource) Size() int64 {
	return s.size
}

// bufferSource is a fully-buffered in-memory Source.
type bufferSource struct {
	data []byte
	pos  int64
}

// NewBuffer wraps an in-memory byte slice as a Source. data is not copied;
// callers must not mutate it while the Source is in use.
func NewBuffer(data []byte) Source {
	return &bufferSource{data: data}
}

func (s *bufferSource) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New("source: negative read size")
	}

	remaining := int64(len(s.data)) - s.pos
	if remaining <= 0 {
		if n == 0 {
			return []byte{}, nil
		}

		return nil, io.EOF
	}

	if int64(n) > remaining {
		buf := make([]byte, remaining)
		copy(buf, s.data[s.pos:])
		s.pos += remaining

		return buf, io.ErrUnexpectedEOF
	}

	buf := make([]byte, n)
	copy(buf, s.data[s.pos:s.pos+int64(n)])
	s.pos += int64(n)

	return buf, nil
}

func (s *bufferSource) Tell() int64 {
	return s.pos
}

func (s *bufferSource) Seek(offset int64, whence int) (int64, error) {
	var target int64

	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = int64(len(s.data)) + offset
	default:
		return s.pos, errors.New("source: invalid whence")
	}

	if target < 0 {
		return s.pos, errors.New("source: negative seek position")
	}

	s.pos = target

	return s.pos, nil
}

func (s *bufferSource) Size() int64 {
	return int64(len(s.data))
}
