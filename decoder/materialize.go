package decoder

import (
	"github.com/px4go/ulog/codec"
	"github.com/px4go/ulog/format"
	"github.com/px4go/ulog/internal/pool"
	"github.com/px4go/ulog/model"
)

// materialize converts every non-empty subscription's accumulated byte
// buffer into a model.Dataset, appends it to st.model.DataList, and
// returns the subscription's buffer to the pool. Empty subscriptions are
// dropped, per §4.8.
func materialize(st *parseState) {
	for _, sub := range st.subs {
		buf := sub.buf.Bytes()
		if len(buf) == 0 {
			pool.PutSubscriptionBuffer(sub.buf)
			continue
		}

		recordSize := sub.schema.RecordSize
		if recordSize == 0 {
			pool.PutSubscriptionBuffer(sub.buf)
			continue
		}

		records := len(buf) / recordSize
		if len(buf)%recordSize != 0 {
			st.model.FileCorrupt = true
		}

		data := make(map[string]model.ColumnData, len(sub.schema.Columns))

		for _, col := range sub.schema.Columns {
			data[col.Name] = materializeColumn(buf, records, recordSize, col.Offset, col.Kind)
		}

		st.model.DataList = append(st.model.DataList, model.Dataset{
			Name:    sub.name,
			MultiID: sub.multiID,
			MsgID:   sub.msgID,
			Schema:  sub.schema,
			Data:    data,
		})

		pool.PutSubscriptionBuffer(sub.buf)
	}
}

// materializeColumn builds a ColumnData by decoding one value of kind from
// each of the records whole records in buf, at the given byte offset
// within each record.
func materializeColumn(buf []byte, records, recordSize, offset int, kind format.Kind) model.ColumnData {
	col := model.ColumnData{Kind: kind}

	switch kind {
	case format.KindInt8:
		col.Int8s = make([]int8, records)
	case format.KindUint8:
		col.Uint8s = make([]uint8, records)
	case format.KindInt16:
		col.Int16s = make([]int16, records)
	case format.KindUint16:
		col.Uint16s = make([]uint16, records)
	case format.KindInt32:
		col.Int32s = make([]int32, records)
	case format.KindUint32:
		col.Uint32s = make([]uint32, records)
	case format.KindInt64:
		col.Int64s = make([]int64, records)
	case format.KindUint64:
		col.Uint64s = make([]uint64, records)
	case format.KindFloat:
		col.Floats = make([]float32, records)
	case format.KindDouble:
		col.Doubles = make([]float64, records)
	case format.KindBool:
		col.Bools = make([]bool, records)
	case format.KindChar:
		col.Chars = make([]byte, records)
	}

	size := kind.Size()

	for i := 0; i < records; i++ {
		start := i*recordSize + offset
		value, err := codec.DecodePrimitive(kind, buf[start:start+size])
		if err != nil {
			continue
		}

		switch kind {
		case format.KindInt8:
			col.Int8s[i] = value.(int8)
		case format.KindUint8:
			col.Uint8s[i] = value.(uint8)
		case format.KindInt16:
			col.Int16s[i] = value.(int16)
		case format.KindUint16:
			col.Uint16s[i] = value.(uint16)
		case format.KindInt32:
			col.Int32s[i] = value.(int32)
		case format.KindUint32:
			col.Uint32s[i] = value.(uint32)
		case format.KindInt64:
			col.Int64s[i] = value.(int64)
		case format.KindUint64:
			col.Uint64s[i] = value.(uint64)
		case format.KindFloat:
			col.Floats[i] = value.(float32)
		case format.KindDouble:
			col.Doubles[i] = value.(float64)
		case format.KindBool:
			col.Bools[i] = value.(bool)
		case format.KindChar:
			col.Chars[i] = value.(uint8)
		}
	}

	return col
}
