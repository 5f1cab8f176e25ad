package encoder

import (
	"fmt"
	"sort"

	"github.com/px4go/ulog/codec"
	"github.com/px4go/ulog/endian"
	"github.com/px4go/ulog/model"
	"github.com/px4go/ulog/section"
)

// timelineEntry is one already-serialized record bound to the timestamp it
// should be ordered by when merged with every other kind of timestamped
// record.
type timelineEntry struct {
	timestamp uint64
	record    []byte
}

// buildTimeline assembles every data row, log message, tagged log message,
// dropout and changed parameter into one slice and stable-sorts it by
// timestamp, per §4.9. Ties keep the assembly order below: all of one
// dataset's rows, then plain log messages, then tagged log messages (by tag),
// then dropouts, then changed parameters.
func buildTimeline(m model.Model) ([]timelineEntry, error) {
	var entries []timelineEntry

	for _, ds := range m.DataList {
		rows, err := datasetTimelineEntries(ds)
		if err != nil {
			return nil, err
		}

		entries = append(entries, rows...)
	}

	for _, lm := range m.LoggedMessages {
		entries = append(entries, timelineEntry{timestamp: lm.Timestamp, record: appendLoggingRecord(lm)})
	}

	for _, tag := range sortedUint16Keys(m.LoggedMessagesTagged) {
		for _, tlm := range m.LoggedMessagesTagged[tag] {
			entries = append(entries, timelineEntry{timestamp: tlm.Timestamp, record: appendLoggingTaggedRecord(tlm)})
		}
	}

	for _, d := range m.Dropouts {
		entries = append(entries, timelineEntry{timestamp: d.Timestamp, record: appendDropoutRecord(d)})
	}

	for _, pc := range m.ChangedParameters {
		rec, err := appendChangedParameterRecord(pc)
		if err != nil {
			return nil, err
		}

		entries = append(entries, timelineEntry{timestamp: pc.Timestamp, record: rec})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].timestamp < entries[j].timestamp
	})

	return entries, nil
}

// datasetTimelineEntries re-packs every accumulated row of ds back into a
// "D" record, in column order, using the dataset's own schema to know where
// each value goes.
func datasetTimelineEntries(ds model.Dataset) ([]timelineEntry, error) {
	n := ds.Len()
	entries := make([]timelineEntry, 0, n)

	for i := 0; i < n; i++ {
		row := make([]byte, 0, ds.Schema.RecordSize)

		for _, col := range ds.Schema.Columns {
			data, ok := ds.Data[col.Name]
			if !ok {
				return nil, fmt.Errorf("ulog: dataset %q missing column %q", ds.Name, col.Name)
			}

			var err error

			row, err = codec.AppendPrimitive(row, col.Kind, data.At(i))
			if err != nil {
				return nil, err
			}
		}

		payload := endian.LittleEndian.AppendUint16(nil, ds.MsgID)
		payload = append(payload, row...)

		ts := uint64(0)
		if ds.Schema.HasTimestamp {
			ts = ds.Data["timestamp"].Uint64At(i)
		}

		entries = append(entries, timelineEntry{timestamp: ts, record: appendRecord(nil, section.TagData, payload)})
	}

	return entries, nil
}

func appendLoggingRecord(lm model.LogMessage) []byte {
	payload := []byte{lm.LogLevel}
	payload = endian.LittleEndian.AppendUint64(payload, lm.Timestamp)
	payload = append(payload, lm.Text...)

	return appendRecord(nil, section.TagLogging, payload)
}

func appendLoggingTaggedRecord(tlm model.TaggedLogMessage) []byte {
	payload := []byte{tlm.LogLevel}
	payload = endian.LittleEndian.AppendUint16(payload, tlm.Tag)
	payload = endian.LittleEndian.AppendUint64(payload, tlm.Timestamp)
	payload = append(payload, tlm.Text...)

	return appendRecord(nil, section.TagLoggingTagged, payload)
}

func appendDropoutRecord(d model.Dropout) []byte {
	payload := endian.LittleEndian.AppendUint16(nil, d.DurationMs)
	return appendRecord(nil, section.TagDropout, payload)
}

func appendChangedParameterRecord(pc model.ParamChange) ([]byte, error) {
	payload, err := appendParameterField(nil, pc.Name, pc.Value)
	if err != nil {
		return nil, err
	}

	return appendRecord(nil, section.TagParameter, payload), nil
}

// appendRecord appends one record header (msg_size, msg_type) followed by
// payload to buf.
func appendRecord(buf []byte, tag byte, payload []byte) []byte {
	buf = endian.LittleEndian.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, tag)
	buf = append(buf, payload...)

	return buf
}
