package decoder

import (
	"github.com/px4go/ulog/codec"
	"github.com/px4go/ulog/endian"
	"github.com/px4go/ulog/internal/pool"
	"github.com/px4go/ulog/internal/recovery"
	"github.com/px4go/ulog/model"
	"github.com/px4go/ulog/registry"
	"github.com/px4go/ulog/section"
	"github.com/px4go/ulog/source"
)

// subscription is the live binding of a msg_id to a flattened schema and
// its accumulating byte buffer, maintained while the data block streams in.
type subscription struct {
	multiID uint8
	msgID   uint16
	name    string
	schema  registry.Schema
	buf     *pool.ByteBuffer
}

// parseDataSections drives the data parser once over the main data region,
// and once more per declared appended region if the flag bits say the file
// has any (§4.7): each region is parsed bounded by the next region's start
// offset, then the source is seeked there to continue; the final region is
// unbounded.
func parseDataSections(src source.Source, st *parseState, flagBits section.FlagBits) error {
	if !flagBits.HasAppendedData() || len(flagBits.AppendedOffsets) == 0 {
		return parseDataRegion(src, st, -1)
	}

	for _, offset := range flagBits.AppendedOffsets {
		if err := parseDataRegion(src, st, int64(offset)); err != nil {
			return err
		}

		if _, err := src.Seek(int64(offset), source.SeekStart); err != nil {
			return err
		}
	}

	return parseDataRegion(src, st, -1)
}

// parseDataRegion drives the message loop across one data region. readUntil
// is the absolute offset at which this region ends, or -1 for unbounded
// (read until end of stream).
func parseDataRegion(src source.Source, st *parseState, readUntil int64) error {
	for {
		if readUntil >= 0 && src.Tell() >= readUntil {
			return nil
		}

		headerBytes, _ := src.ReadExact(section.RecordHeaderSize)
		if len(headerBytes) < section.RecordHeaderSize {
			return nil
		}

		hdr := section.ParseRecordHeader(headerBytes)

		if hdr.IsCorrupt() {
			st.model.FileCorrupt = true

			found, eof, err := recovery.ScanBounded(src, int64(hdr.MsgSize))
			if err != nil {
				return err
			}

			if eof && !found {
				return nil
			}

			continue
		}

		payload, err := src.ReadExact(int(hdr.MsgSize))
		if err != nil {
			return nil
		}

		stop, err := dispatchDataRecord(src, st, hdr, payload)
		if err != nil {
			return err
		}

		if stop {
			return nil
		}
	}
}

// dispatchDataRecord handles one already-read data-block record. stop is
// true when the unknown-tag recovery path ran off the end of the stream
// without finding a sync marker, signalling the region is exhausted.
func dispatchDataRecord(src source.Source, st *parseState, hdr section.RecordHeader, payload []byte) (stop bool, err error) {
	switch hdr.MsgType {
	case section.TagAddLogged:
		applyAddLogged(st, payload)

	case section.TagRemoveLogged:
		// No effect on the materialised model.

	case section.TagData:
		applyDataRecord(st, payload)

	case section.TagParameter:
		field, ferr := parseInfoField(payload, st.cfg.lossyStrings)
		if ferr != nil {
			st.model.FileCorrupt = true
			return false, nil
		}

		st.model.ChangedParameters = append(st.model.ChangedParameters, model.ParamChange{
			Timestamp: st.model.LastTimestamp,
			Name:      field.Key,
			Value:     field.Value,
		})

	case section.TagParameterDef:
		applyDefaultParameterRecord(st.model, payload, st.cfg.lossyStrings)

	case section.TagInfo:
		applyInfoRecord(st.model, payload, st.cfg.lossyStrings)

	case section.TagInfoMulti:
		applyInfoMultiRecord(st.model, payload, st.cfg.lossyStrings)

	case section.TagLogging:
		applyLoggingRecord(st, payload)

	case section.TagLoggingTagged:
		applyLoggingTaggedRecord(st, payload)

	case section.TagDropout:
		applyDropoutRecord(st, payload)

	case section.TagSync:
		st.model.SyncCount++

	default:
		return recoverUnknownTag(src, st, hdr)
	}

	return false, nil
}

func applyAddLogged(st *parseState, payload []byte) {
	if len(payload) < 3 {
		st.model.FileCorrupt = true
		return
	}

	multiID := payload[0]
	msgID := endian.LittleEndian.Uint16(payload[1:3])
	name := string(payload[3:])

	schema, err := st.registry.Resolve(name)
	if err != nil {
		st.model.FileCorrupt = true
		return
	}

	delete(st.filteredIDs, msgID)

	if !st.cfg.included(name) {
		st.filteredIDs[msgID] = true
		delete(st.subs, msgID)

		return
	}

	st.subs[msgID] = &subscription{
		multiID: multiID,
		msgID:   msgID,
		name:    name,
		schema:  schema,
		buf:     pool.GetSubscriptionBuffer(),
	}
}

func applyDataRecord(st *parseState, payload []byte) {
	if len(payload) < 2 {
		st.model.FileCorrupt = true
		return
	}

	msgID := endian.LittleEndian.Uint16(payload[0:2])
	record := payload[2:]

	sub, ok := st.subs[msgID]
	if !ok {
		if !st.filteredIDs[msgID] {
			st.missingIDs[msgID] = true
		}

		return
	}

	if len(record) != sub.schema.RecordSize {
		st.model.FileCorrupt = true
		return
	}

	sub.buf.MustWrite(record)

	if !sub.schema.HasTimestamp {
		return
	}

	tsOff := sub.schema.TimestampOffset
	if tsOff+8 > len(record) {
		return
	}

	ts := endian.LittleEndian.Uint64(record[tsOff : tsOff+8])
	if ts != 0 && ts > st.model.LastTimestamp {
		st.model.LastTimestamp = ts
	}
}

func applyLoggingRecord(st *parseState, payload []byte) {
	if len(payload) < 9 {
		st.model.FileCorrupt = true
		return
	}

	level := payload[0]
	ts := endian.LittleEndian.Uint64(payload[1:9])

	text, err := codec.DecodeString(payload[9:], st.cfg.lossyStrings)
	if err != nil {
		st.model.FileCorrupt = true
		return
	}

	st.model.LoggedMessages = append(st.model.LoggedMessages, model.LogMessage{
		LogLevel:  level,
		Timestamp: ts,
		Text:      text,
	})
}

func applyLoggingTaggedRecord(st *parseState, payload []byte) {
	if len(payload) < 11 {
		st.model.FileCorrupt = true
		return
	}

	level := payload[0]
	tag := endian.LittleEndian.Uint16(payload[1:3])
	ts := endian.LittleEndian.Uint64(payload[3:11])

	text, err := codec.DecodeString(payload[11:], st.cfg.lossyStrings)
	if err != nil {
		st.model.FileCorrupt = true
		return
	}

	st.model.LoggedMessagesTagged[tag] = append(st.model.LoggedMessagesTagged[tag], model.TaggedLogMessage{
		LogLevel:  level,
		Tag:       tag,
		Timestamp: ts,
		Text:      text,
	})
}

func applyDropoutRecord(st *parseState, payload []byte) {
	if len(payload) < 2 {
		st.model.FileCorrupt = true
		return
	}

	duration := endian.LittleEndian.Uint16(payload[0:2])

	st.model.Dropouts = append(st.model.Dropouts, model.Dropout{
		Timestamp:  st.model.LastTimestamp,
		DurationMs: duration,
	})
}

// recoverUnknownTag implements the unknown-tag recovery path of §4.6: seek
// back past the payload just consumed (and the two trailing bytes of the
// header) so the scan includes it, then scan forward for the sync marker.
// On success the caller's loop simply continues from the post-marker
// position; on running off the end of the stream it signals stop.
func recoverUnknownTag(src source.Source, st *parseState, hdr section.RecordHeader) (stop bool, err error) {
	st.model.FileCorrupt = true

	if _, err := src.Seek(-(int64(hdr.MsgSize)+2), source.SeekCurrent); err != nil {
		return false, err
	}

	found, eof, err := recovery.ScanForward(src)
	if err != nil {
		return false, err
	}

	return eof && !found, nil
}
