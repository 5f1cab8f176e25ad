// Package format defines the primitive scalar types that make up a ULog
// format declaration and their little-endian wire sizes.
package format

import "fmt"

// Kind identifies one of the twelve primitive scalar types a ULog field can
// be declared with. A field type is either a Kind, a fixed-size array of a
// Kind, or the name of another declared format (itself possibly an array).
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat
	KindDouble
	KindBool
	KindChar
)

// names maps the wire type name (as it appears in a format declaration
// string, e.g. "uint64_t") to its Kind. These are the literal spellings used
// by the PX4 logger, not the shorthand names used when describing the
// format informally.
var names = map[string]Kind{
	"int8_t":   KindInt8,
	"uint8_t":  KindUint8,
	"int16_t":  KindInt16,
	"uint16_t": KindUint16,
	"int32_t":  KindInt32,
	"uint32_t": KindUint32,
	"int64_t":  KindInt64,
	"uint64_t": KindUint64,
	"float":    KindFloat,
	"double":   KindDouble,
	"bool":     KindBool,
	"char":     KindChar,
}

var sizes = map[Kind]int{
	KindInt8:   1,
	KindUint8:  1,
	KindInt16:  2,
	KindUint16: 2,
	KindInt32:  4,
	KindUint32: 4,
	KindInt64:  8,
	KindUint64: 8,
	KindFloat:  4,
	KindDouble: 8,
	KindBool:   1,
	KindChar:   1,
}

var kindNames = map[Kind]string{
	KindInt8:   "int8_t",
	KindUint8:  "uint8_t",
	KindInt16:  "int16_t",
	KindUint16: "uint16_t",
	KindInt32:  "int32_t",
	KindUint32: "uint32_t",
	KindInt64:  "int64_t",
	KindUint64: "uint64_t",
	KindFloat:  "float",
	KindDouble: "double",
	KindBool:   "bool",
	KindChar:   "char",
}

// LookupKind resolves a primitive type name to its Kind. ok is false if name
// does not name one of the twelve primitives (it may be a nested format
// name instead).
func LookupKind(name string) (kind Kind, ok bool) {
	kind, ok = names[name]
	return kind, ok
}

// IsPrimitive reports whether name is one of the twelve primitive type names.
func IsPrimitive(name string) bool {
	_, ok := names[name]
	return ok
}

// Size returns the wire size in bytes of a single element of kind.
func (k Kind) Size() int {
	return sizes[k]
}

// String returns the wire type name of kind, e.g. "uint64_t".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}
