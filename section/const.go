// Package section defines the fixed-layout pieces of the ULog wire format:
// the file header, the 3-byte record header, the flag-bits record, and the
// constants the recovery controller uses to recognise a sync marker or a
// corrupt record header.
package section

// FileHeaderSize is the size in bytes of the file header: 7-byte magic,
// 1-byte version, 8-byte little-endian start timestamp.
const FileHeaderSize = 16

// RecordHeaderSize is the size in bytes of a record header: uint16 msg_size
// followed by a uint8 msg_type.
const RecordHeaderSize = 3

// Magic is the 7-byte signature every valid ULog file starts with.
var Magic = [7]byte{0x55, 0x4c, 0x6f, 0x67, 0x01, 0x12, 0x35}

// SyncMarker is the 8-byte pattern embedded in Sync records that the
// recovery controller scans for when resynchronising after corruption.
var SyncMarker = [8]byte{0x2f, 0x73, 0x13, 0x20, 0x25, 0x0c, 0xbb, 0x12}

// Message tags, one ASCII byte each, identifying the kind of record that
// follows a record header.
const (
	TagFormat         = 'F'
	TagInfo           = 'I'
	TagInfoMulti      = 'M'
	TagParameter      = 'P'
	TagParameterDef   = 'Q'
	TagAddLogged      = 'A'
	TagRemoveLogged   = 'R'
	TagData           = 'D'
	TagLogging        = 'L'
	TagLoggingTagged  = 'C'
	TagSync           = 'S'
	TagDropout        = 'O'
	TagFlagBits       = 'B'
)

// MaxRecordPayloadSize is the sanity ceiling used by the corrupt-packet
// heuristic: any declared msg_size beyond this is treated as corruption
// rather than an oversized but valid record.
const MaxRecordPayloadSize = 10000

// IsCorruptHeader reports whether a just-read record header looks corrupt,
// per the heuristic the data parser applies: a zero msg_type, a
// zero msg_size, or an implausibly large msg_size.
func IsCorruptHeader(msgType byte, msgSize uint16) bool {
	return msgType == 0 || msgSize == 0 || int(msgSize) > MaxRecordPayloadSize
}

// IncompatAppendedDataBit is bit 0 of incompat_flags[0]: when set, the file
// declares one or more appended regions whose start offsets are carried in
// the flag-bits record.
const IncompatAppendedDataBit = 0x01
