package encoder

import (
	"strings"

	"github.com/px4go/ulog/codec"
	"github.com/px4go/ulog/errs"
	"github.com/px4go/ulog/format"
)

// appendInfoField appends one I-shaped record payload (key length, "typename
// key", value bytes) to buf.
func appendInfoField(buf []byte, typeName, key string, value any) ([]byte, error) {
	typeKey := typeName + " " + key
	buf = append(buf, byte(len(typeKey)))
	buf = append(buf, typeKey...)

	return appendInfoValue(buf, typeName, value)
}

// appendInfoValue mirrors decodeInfoValue in the decoder: a "char[N]" type
// writes value as a string, a recognised primitive name writes its fixed-width
// encoding, and anything else is expected to already be raw bytes (as stored
// by the decoder for types it could not interpret).
func appendInfoValue(buf []byte, typeName string, value any) ([]byte, error) {
	if strings.HasPrefix(typeName, "char[") {
		s, ok := value.(string)
		if !ok {
			return nil, errs.ErrParameterType
		}

		return append(buf, s...), nil
	}

	if kind, ok := format.LookupKind(typeName); ok {
		return codec.AppendPrimitive(buf, kind, value)
	}

	raw, ok := value.([]byte)
	if !ok {
		return nil, errs.ErrParameterType
	}

	return append(buf, raw...), nil
}

// inferKind recovers the wire Kind of a boxed parameter value. Parameters
// carry no separate type map in the model (unlike info entries), so the
// encoder infers it from the Go type the decoder would have produced.
func inferKind(value any) (format.Kind, bool) {
	switch value.(type) {
	case int8:
		return format.KindInt8, true
	case uint8:
		return format.KindUint8, true
	case int16:
		return format.KindInt16, true
	case uint16:
		return format.KindUint16, true
	case int32:
		return format.KindInt32, true
	case uint32:
		return format.KindUint32, true
	case int64:
		return format.KindInt64, true
	case uint64:
		return format.KindUint64, true
	case float32:
		return format.KindFloat, true
	case float64:
		return format.KindDouble, true
	case bool:
		return format.KindBool, true
	default:
		return format.KindUnknown, false
	}
}

// appendParameterField appends an I-shaped record payload for a parameter
// value whose type must be inferred, since the model stores no type string
// for parameters.
func appendParameterField(buf []byte, key string, value any) ([]byte, error) {
	kind, ok := inferKind(value)
	if !ok {
		return nil, errs.ErrParameterType
	}

	return appendInfoField(buf, kind.String(), key, value)
}
