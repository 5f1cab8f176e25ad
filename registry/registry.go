// Package registry holds parsed ULog format declarations and resolves a
// format name into a flattened column schema: nested records expand into
// dotted names, array elements become "name[i]", and trailing "_padding*"
// fields are discarded.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/px4go/ulog/errs"
	"github.com/px4go/ulog/format"
)

// maxExpansionDepth bounds the depth-first expansion of nested formats as a
// backstop against runaway recursion; genuine ULog formats never approach
// this. Combined with the active-set cycle check below, it guards against
// both direct self-reference and long indirect cycles.
const maxExpansionDepth = 64

// FieldDecl is one (field_type, array_size, field_name) triple from a
// format declaration. ArraySize is 1 for a scalar field.
type FieldDecl struct {
	TypeName  string
	ArraySize int
	FieldName string
}

// FormatDecl is a named, ordered sequence of fields as declared by an 'F'
// record, before any flattening.
type FormatDecl struct {
	Name   string
	Fields []FieldDecl
}

// Column is one entry of a flattened schema: a single primitive value at a
// fixed byte offset within a record.
type Column struct {
	Name   string
	Kind   format.Kind
	Offset int
}

// Size returns the wire size in bytes of this column's single element.
func (c Column) Size() int {
	return c.Kind.Size()
}

// Schema is the flattened, ordered column list produced by resolving a
// format name, along with the derived record size and timestamp location.
type Schema struct {
	Columns []Column
	// RecordSize is the sum of every column's element size; a data record
	// for this schema must be exactly this many bytes.
	RecordSize int
	// TimestampOffset is the byte offset of the "timestamp" column within
	// a record, or 0 if no such column exists (no per-record timestamp
	// recovery is then possible).
	TimestampOffset int
	// HasTimestamp reports whether a top-level "timestamp" column exists.
	HasTimestamp bool
}

// Registry holds every format declaration seen so far and resolves format
// names into flattened Schemas. Resolved schemas are cached by the xxhash of
// their name, since the same subscription's format is typically resolved
// once per data record in naive callers and a definitions block can declare
// dozens of formats referencing each other.
type Registry struct {
	formats map[string]FormatDecl
	cache   map[uint64]Schema
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		formats: make(map[string]FormatDecl),
		cache:   make(map[uint64]Schema),
	}
}

// ParseFormatText parses an 'F' record payload of the shape
// "Name:T1 f1;T2[K] f2;" into a FormatDecl.
func ParseFormatText(text string) (FormatDecl, error) {
	name, fieldsStr, found := strings.Cut(text, ":")
	if !found {
		return FormatDecl{}, fmt.Errorf("%w: missing ':' in %q", errs.ErrMalformedFormat, text)
	}

	decl := FormatDecl{Name: name}
	for _, tok := range strings.Split(fieldsStr, ";") {
		if tok == "" {
			continue
		}

		field, err := parseFieldToken(tok)
		if err != nil {
			return FormatDecl{}, err
		}

		decl.Fields = append(decl.Fields, field)
	}

	return decl, nil
}

func parseFieldToken(tok string) (FieldDecl, error) {
	typeStr, fieldName, found := strings.Cut(tok, " ")
	if !found {
		return FieldDecl{}, fmt.Errorf("%w: missing field name in %q", errs.ErrMalformedFormat, tok)
	}

	typeName := typeStr
	arraySize := 1

	if open := strings.IndexByte(typeStr, '['); open != -1 {
		closeIdx := strings.IndexByte(typeStr, ']')
		if closeIdx == -1 || closeIdx < open {
			return FieldDecl{}, fmt.Errorf("%w: malformed array size in %q", errs.ErrMalformedFormat, tok)
		}

		n, err := strconv.Atoi(typeStr[open+1 : closeIdx])
		if err != nil || n < 1 {
			return FieldDecl{}, fmt.Errorf("%w: invalid array size in %q", errs.ErrMalformedFormat, tok)
		}

		typeName = typeStr[:open]
		arraySize = n
	}

	return FieldDecl{TypeName: typeName, ArraySize: arraySize, FieldName: fieldName}, nil
}

// Register records decl under its own name, replacing any prior declaration
// of the same name (the definitions parser allows redeclaration mid-stream).
// Any cached resolution is dropped, since a redeclaration can change the
// flattening of every format that nests it.
func (r *Registry) Register(decl FormatDecl) {
	r.formats[decl.Name] = decl

	for k := range r.cache {
		delete(r.cache, k)
	}
}

// Get returns the declaration registered under name, if any.
func (r *Registry) Get(name string) (FormatDecl, bool) {
	decl, ok := r.formats[name]
	return decl, ok
}

// Resolve flattens the format named name into an ordered Schema. Nested
// format fields are expanded depth-first; array elements of either
// primitive or nested fields become "name[i]" (or "name[i].field" when the
// array element is itself a nested record). Trailing fields whose flattened
// name starts with "_padding" are dropped.
func (r *Registry) Resolve(name string) (Schema, error) {
	key := xxhash.Sum64String(name)
	if schema, ok := r.cache[key]; ok {
		return schema, nil
	}

	decl, ok := r.formats[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", errs.ErrUnknownType, name)
	}

	var columns []Column
	active := map[string]bool{name: true}

	if err := r.expand(decl, "", &columns, active, 1); err != nil {
		return Schema{}, err
	}

	// Matches pyulog's own trailing-padding check: it tests the flattened
	// field name as a whole against the "_padding" prefix, so only an
	// unprefixed top-level padding field is stripped. A nested field like
	// "nested._padding0" keeps its "nested." prefix and survives.
	for len(columns) > 0 && strings.HasPrefix(columns[len(columns)-1].Name, "_padding") {
		columns = columns[:len(columns)-1]
	}

	schema := Schema{Columns: columns}
	offset := 0

	for i := range columns {
		columns[i].Offset = offset
		offset += columns[i].Size()

		if columns[i].Name == "timestamp" {
			if columns[i].Kind != format.KindUint64 {
				return Schema{}, fmt.Errorf("%w: %q has %v", errs.ErrUnsupportedTimestampKind, name, columns[i].Kind)
			}

			schema.TimestampOffset = columns[i].Offset
			schema.HasTimestamp = true
		}
	}

	schema.RecordSize = offset

	r.cache[key] = schema

	return schema, nil
}

func (r *Registry) expand(decl FormatDecl, prefix string, columns *[]Column, active map[string]bool, depth int) error {
	if depth > maxExpansionDepth {
		return fmt.Errorf("%w: expansion of %q exceeds depth %d", errs.ErrCyclicFormat, decl.Name, maxExpansionDepth)
	}

	for _, field := range decl.Fields {
		if kind, ok := format.LookupKind(field.TypeName); ok {
			if field.ArraySize > 1 {
				for i := range field.ArraySize {
					*columns = append(*columns, Column{Name: fmt.Sprintf("%s%s[%d]", prefix, field.FieldName, i), Kind: kind})
				}
			} else {
				*columns = append(*columns, Column{Name: prefix + field.FieldName, Kind: kind})
			}

			continue
		}

		nested, ok := r.formats[field.TypeName]
		if !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnknownType, field.TypeName)
		}

		if active[field.TypeName] {
			return fmt.Errorf("%w: %q", errs.ErrCyclicFormat, field.TypeName)
		}

		active[field.TypeName] = true

		if field.ArraySize > 1 {
			for i := range field.ArraySize {
				nestedPrefix := fmt.Sprintf("%s%s[%d].", prefix, field.FieldName, i)
				if err := r.expand(nested, nestedPrefix, columns, active, depth+1); err != nil {
					delete(active, field.TypeName)
					return err
				}
			}
		} else {
			nestedPrefix := prefix + field.FieldName + "."
			if err := r.expand(nested, nestedPrefix, columns, active, depth+1); err != nil {
				delete(active, field.TypeName)
				return err
			}
		}

		delete(active, field.TypeName)
	}

	return nil
}
