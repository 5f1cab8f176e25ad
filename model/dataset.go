package model

import (
	"fmt"

	"github.com/px4go/ulog/format"
	"github.com/px4go/ulog/registry"
)

// ColumnData is the materialised, per-column structure-of-arrays view of one
// subscription's accumulated buffer. Exactly one of the typed slices below
// is populated, matching Kind.
type ColumnData struct {
	Kind format.Kind

	Int8s   []int8
	Uint8s  []uint8
	Int16s  []int16
	Uint16s []uint16
	Int32s  []int32
	Uint32s []uint32
	Int64s  []int64
	Uint64s []uint64
	Floats  []float32
	Doubles []float64
	Bools   []bool
	Chars   []byte
}

// Len returns the number of samples in this column.
func (c ColumnData) Len() int {
	switch c.Kind {
	case format.KindInt8:
		return len(c.Int8s)
	case format.KindUint8:
		return len(c.Uint8s)
	case format.KindInt16:
		return len(c.Int16s)
	case format.KindUint16:
		return len(c.Uint16s)
	case format.KindInt32:
		return len(c.Int32s)
	case format.KindUint32:
		return len(c.Uint32s)
	case format.KindInt64:
		return len(c.Int64s)
	case format.KindUint64:
		return len(c.Uint64s)
	case format.KindFloat:
		return len(c.Floats)
	case format.KindDouble:
		return len(c.Doubles)
	case format.KindBool:
		return len(c.Bools)
	case format.KindChar:
		return len(c.Chars)
	default:
		return 0
	}
}

// At returns the boxed value of sample i, suitable for equality comparison
// or generic display.
func (c ColumnData) At(i int) any {
	switch c.Kind {
	case format.KindInt8:
		return c.Int8s[i]
	case format.KindUint8:
		return c.Uint8s[i]
	case format.KindInt16:
		return c.Int16s[i]
	case format.KindUint16:
		return c.Uint16s[i]
	case format.KindInt32:
		return c.Int32s[i]
	case format.KindUint32:
		return c.Uint32s[i]
	case format.KindInt64:
		return c.Int64s[i]
	case format.KindUint64:
		return c.Uint64s[i]
	case format.KindFloat:
		return c.Floats[i]
	case format.KindDouble:
		return c.Doubles[i]
	case format.KindBool:
		return c.Bools[i]
	case format.KindChar:
		return c.Chars[i]
	default:
		return nil
	}
}

// Dataset is the materialised per-(name, multi_id) columnar view of one
// subscription's accumulated data.
type Dataset struct {
	Name    string
	MultiID uint8
	MsgID   uint16
	Schema  registry.Schema
	// Data maps each flattened column name to its decoded array. All arrays
	// have the same length: the number of records accumulated for this
	// subscription.
	Data map[string]ColumnData
}

// Len returns the number of records materialised for this dataset.
func (d Dataset) Len() int {
	if !d.Schema.HasTimestamp {
		for _, col := range d.Data {
			return col.Len()
		}

		return 0
	}

	return d.Data["timestamp"].Len()
}

// ValueChange is one entry of the result of Dataset.ListValueChanges.
type ValueChange struct {
	Timestamp uint64
	Value     any
}

// ListValueChanges returns, for field, the first sample with a non-zero
// timestamp followed by every later sample whose value differs from its
// immediate predecessor. Samples whose timestamp is 0 are filtered out
// entirely before the comparison, matching the semantics of a logger that
// emits a zero timestamp for a record it could not attribute.
func (d Dataset) ListValueChanges(field string) ([]ValueChange, error) {
	col, ok := d.Data[field]
	if !ok {
		return nil, fmt.Errorf("ulog: dataset %q has no column %q", d.Name, field)
	}

	ts, ok := d.Data["timestamp"]
	if !ok {
		return nil, fmt.Errorf("ulog: dataset %q has no timestamp column", d.Name)
	}

	var out []ValueChange

	var prev any
	havePrev := false

	for i := 0; i < col.Len(); i++ {
		t := ts.Uint64At(i)
		if t == 0 {
			continue
		}

		v := col.At(i)
		if !havePrev || v != prev {
			out = append(out, ValueChange{Timestamp: t, Value: v})
			prev = v
			havePrev = true
		}
	}

	return out, nil
}

// Uint64At returns sample i interpreted as uint64. It is used for the
// timestamp column, which is always KindUint64.
func (c ColumnData) Uint64At(i int) uint64 {
	if c.Kind == format.KindUint64 {
		return c.Uint64s[i]
	}

	return 0
}
