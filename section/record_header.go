package section

import "github.com/px4go/ulog/endian"

// RecordHeader is the 3-byte header preceding every definitions/data record:
// a little-endian payload length followed by a one-byte ASCII tag.
type RecordHeader struct {
	MsgSize uint16
	MsgType byte
}

// ParseRecordHeader parses a 3-byte record header. Callers are expected to
// have already read exactly RecordHeaderSize bytes (a short read is a clean
// end of stream, handled by the caller before this is invoked).
func ParseRecordHeader(data []byte) RecordHeader {
	return RecordHeader{
		MsgSize: endian.LittleEndian.Uint16(data[0:2]),
		MsgType: data[2],
	}
}

// Bytes serializes the record header to its 3-byte wire form.
func (h RecordHeader) Bytes() []byte {
	buf := make([]byte, RecordHeaderSize)
	endian.LittleEndian.PutUint16(buf[0:2], h.MsgSize)
	buf[2] = h.MsgType

	return buf
}

// IsCorrupt reports whether this header fails the corrupt-packet sanity
// predicate (see IsCorruptHeader).
func (h RecordHeader) IsCorrupt() bool {
	return IsCorruptHeader(h.MsgType, h.MsgSize)
}
