// Package codec implements the fixed-width little-endian encode/decode of
// the twelve ULog primitive types, plus decoding of the UTF-8 strings carried
// by info and logging records. Parsing of the length-prefixed info layout
// itself lives in the decoder and encoder packages.
package codec

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/px4go/ulog/endian"
	"github.com/px4go/ulog/format"
)

// DecodePrimitive decodes a single scalar of kind from the first
// kind.Size() bytes of data, returning it boxed in the matching Go type.
func DecodePrimitive(kind format.Kind, data []byte) (any, error) {
	if len(data) < kind.Size() {
		return nil, fmt.Errorf("codec: short buffer for %v: need %d, have %d", kind, kind.Size(), len(data))
	}

	switch kind {
	case format.KindInt8:
		return int8(data[0]), nil
	case format.KindUint8:
		return data[0], nil
	case format.KindInt16:
		return int16(endian.LittleEndian.Uint16(data)), nil
	case format.KindUint16:
		return endian.LittleEndian.Uint16(data), nil
	case format.KindInt32:
		return int32(endian.LittleEndian.Uint32(data)), nil
	case format.KindUint32:
		return endian.LittleEndian.Uint32(data), nil
	case format.KindInt64:
		return int64(endian.LittleEndian.Uint64(data)), nil
	case format.KindUint64:
		return endian.LittleEndian.Uint64(data), nil
	case format.KindFloat:
		return math.Float32frombits(endian.LittleEndian.Uint32(data)), nil
	case format.KindDouble:
		return math.Float64frombits(endian.LittleEndian.Uint64(data)), nil
	case format.KindBool:
		return data[0] != 0, nil
	case format.KindChar:
		return data[0], nil
	default:
		return nil, fmt.Errorf("codec: unknown kind %v", kind)
	}
}

// AppendPrimitive encodes value (which must be the Go type DecodePrimitive
// would have produced for kind) and appends its wire bytes to buf.
func AppendPrimitive(buf []byte, kind format.Kind, value any) ([]byte, error) {
	switch kind {
	case format.KindInt8:
		v, ok := value.(int8)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return append(buf, byte(v)), nil
	case format.KindUint8:
		v, ok := value.(uint8)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return append(buf, v), nil
	case format.KindInt16:
		v, ok := value.(int16)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint16(buf, uint16(v)), nil
	case format.KindUint16:
		v, ok := value.(uint16)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint16(buf, v), nil
	case format.KindInt32:
		v, ok := value.(int32)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint32(buf, uint32(v)), nil
	case format.KindUint32:
		v, ok := value.(uint32)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint32(buf, v), nil
	case format.KindInt64:
		v, ok := value.(int64)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint64(buf, uint64(v)), nil
	case format.KindUint64:
		v, ok := value.(uint64)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint64(buf, v), nil
	case format.KindFloat:
		v, ok := value.(float32)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint32(buf, math.Float32bits(v)), nil
	case format.KindDouble:
		v, ok := value.(float64)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return endian.LittleEndian.AppendUint64(buf, math.Float64bits(v)), nil
	case format.KindBool:
		v, ok := value.(bool)
		if !ok {
			return nil, typeErr(kind, value)
		}

		if v {
			return append(buf, 1), nil
		}

		return append(buf, 0), nil
	case format.KindChar:
		v, ok := value.(uint8)
		if !ok {
			return nil, typeErr(kind, value)
		}

		return append(buf, v), nil
	default:
		return nil, fmt.Errorf("codec: unknown kind %v", kind)
	}
}

func typeErr(kind format.Kind, value any) error {
	return fmt.Errorf("codec: value %v (%T) does not match kind %v", value, value, kind)
}

// DecodeString renders data as text. When lossy is false, invalid UTF-8
// input is an error; when true (the "disable_str_exceptions" decoder
// option), invalid bytes are dropped and decoding always succeeds.
func DecodeString(data []byte, lossy bool) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	if !lossy {
		return "", fmt.Errorf("codec: invalid UTF-8 in string of length %d", len(data))
	}

	out := make([]byte, 0, len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			data = data[1:]
			continue
		}

		out = append(out, data[:size]...)
		data = data[size:]
	}

	return string(out), nil
}
