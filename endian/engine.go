// Package endian provides the byte-order engine used to decode and encode
// ULog primitive values.
//
// ULog is defined as little-endian throughout; unlike formats that are
// interoperable across host byte orders, there is no on-wire flag selecting
// an alternate byte order. The package still exposes the encode/decode
// surface as an interface rather than calling encoding/binary directly at
// every call site, so the rest of the codebase reads the same whether it is
// decoding a primitive column or encoding one back to the wire.
package endian

import "encoding/binary"

// Engine combines ByteOrder and AppendByteOrder from the standard library's
// encoding/binary package into a single interface for convenient access to
// both read/write and append-style operations.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian is the one and only byte-order engine ULog uses on the wire.
var LittleEndian Engine = binary.LittleEndian
