package section

import (
	"github.com/px4go/ulog/endian"
	"github.com/px4go/ulog/errs"
)

// FileHeader is the fixed 16-byte header at the start of every ULog file.
type FileHeader struct {
	Version        uint8
	StartTimestamp uint64 // microseconds, arbitrary epoch
}

// ParseFileHeader parses the 16-byte file header from data. data must be
// exactly FileHeaderSize bytes; shorter input or a magic mismatch yields
// errs.ErrInvalidHeader.
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) != FileHeaderSize {
		return FileHeader{}, errs.ErrInvalidHeader
	}

	for i, b := range Magic {
		if data[i] != b {
			return FileHeader{}, errs.ErrInvalidHeader
		}
	}

	return FileHeader{
		Version:        data[7],
		StartTimestamp: endian.LittleEndian.Uint64(data[8:16]),
	}, nil
}

// Bytes serializes the file header back to its 16-byte wire form.
func (h FileHeader) Bytes() []byte {
	buf := make([]byte, FileHeaderSize)
	copy(buf[0:7], Magic[:])
	buf[7] = h.Version
	endian.LittleEndian.PutUint64(buf[8:16], h.StartTimestamp)

	return buf
}
