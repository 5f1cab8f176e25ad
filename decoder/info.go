package decoder

import (
	"fmt"
	"strings"

	"github.com/px4go/ulog/codec"
	"github.com/px4go/ulog/format"
)

// infoField is the decoded shape common to I, P and the tail of Q and M
// records: a one-byte key length, a "typename key" string of that length,
// and the value bytes that follow.
type infoField struct {
	TypeName string
	Key      string
	Value    any
}

// parseInfoField parses an I-shaped payload. lossy controls how an invalid
// "char[N]" string value is handled.
func parseInfoField(data []byte, lossy bool) (infoField, error) {
	if len(data) < 1 {
		return infoField{}, fmt.Errorf("decoder: info record too short")
	}

	keyLen := int(data[0])
	if len(data) < 1+keyLen {
		return infoField{}, fmt.Errorf("decoder: info record key truncated")
	}

	typeKey := string(data[1 : 1+keyLen])

	typeName, key, found := strings.Cut(typeKey, " ")
	if !found {
		return infoField{}, fmt.Errorf("decoder: malformed info type/key %q", typeKey)
	}

	valueBytes := data[1+keyLen:]

	value, err := decodeInfoValue(typeName, valueBytes, lossy)
	if err != nil {
		return infoField{}, err
	}

	return infoField{TypeName: typeName, Key: key, Value: value}, nil
}

// decodeInfoValue dispatches on typeName: a "char[N]" string, a primitive
// scalar, or (for anything else, including arrays of other primitives)
// the raw bytes, preserved verbatim so they round-trip even though this
// decoder does not interpret them.
func decodeInfoValue(typeName string, data []byte, lossy bool) (any, error) {
	if strings.HasPrefix(typeName, "char[") {
		return codec.DecodeString(data, lossy)
	}

	if kind, ok := format.LookupKind(typeName); ok {
		if len(data) != kind.Size() {
			return append([]byte{}, data...), nil
		}

		return codec.DecodePrimitive(kind, data)
	}

	return append([]byte{}, data...), nil
}
