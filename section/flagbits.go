package section

import "github.com/px4go/ulog/endian"

// FlagBitsPayloadSize is the fixed payload size of a flag-bits record:
// 8-byte compat_flags, 8-byte incompat_flags, and three uint64 appended-data
// offsets.
const FlagBitsPayloadSize = 8 + 8 + 3*8

// FlagBits is the payload of the 'B' record. It must be the first record
// after the file header when present.
type FlagBits struct {
	CompatFlags   [8]byte
	IncompatFlags [8]byte
	// AppendedOffsets holds the non-zero entries of the up-to-three
	// appended-region start offsets, in the order they were declared.
	AppendedOffsets []uint64
}

// HasAppendedData reports whether incompat_flags[0] bit 0 is set, meaning
// the file declares one or more appended regions.
func (f FlagBits) HasAppendedData() bool {
	return f.IncompatFlags[0]&IncompatAppendedDataBit != 0
}

// UnknownIncompatBitsSet reports whether any incompat_flags bit other than
// bit 0 of byte 0 is set. Such a bit is a fatal, unrecoverable error: the
// file uses an incompatible feature this decoder does not understand.
func (f FlagBits) UnknownIncompatBitsSet() bool {
	if f.IncompatFlags[0]&^byte(IncompatAppendedDataBit) != 0 {
		return true
	}

	for i := 1; i < len(f.IncompatFlags); i++ {
		if f.IncompatFlags[i] != 0 {
			return true
		}
	}

	return false
}

// ParseFlagBits parses a flag-bits record payload. data must be at least 16
// bytes (the compat and incompat flag arrays); the full record is
// FlagBitsPayloadSize bytes, but a shorter payload is tolerated by treating
// missing appended-offset slots as zero (and thus dropped).
func ParseFlagBits(data []byte) FlagBits {
	var f FlagBits

	copy(f.CompatFlags[:], data[0:8])
	copy(f.IncompatFlags[:], data[8:16])

	for i := range 3 {
		start := 16 + i*8
		if start+8 > len(data) {
			break
		}

		offset := endian.LittleEndian.Uint64(data[start : start+8])
		if offset != 0 {
			f.AppendedOffsets = append(f.AppendedOffsets, offset)
		}
	}

	return f
}

// Bytes serializes the flag-bits payload back to its fixed-size wire form,
// padding unused appended-offset slots with zero.
func (f FlagBits) Bytes() []byte {
	buf := make([]byte, FlagBitsPayloadSize)
	copy(buf[0:8], f.CompatFlags[:])
	copy(buf[8:16], f.IncompatFlags[:])

	for i, offset := range f.AppendedOffsets {
		if i >= 3 {
			break
		}

		start := 16 + i*8
		endian.LittleEndian.PutUint64(buf[start:start+8], offset)
	}

	return buf
}
