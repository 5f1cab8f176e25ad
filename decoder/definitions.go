package decoder

import (
	"github.com/px4go/ulog/errs"
	"github.com/px4go/ulog/model"
	"github.com/px4go/ulog/registry"
	"github.com/px4go/ulog/section"
	"github.com/px4go/ulog/source"
)

// parseDefinitions drives the message loop across the definitions block:
// format, info, info-multi, initial-parameter, default-parameter and
// flag-bits records. It returns on a clean end of stream or as soon as an
// add-logged-message or logging record is seen, having rewound the source
// so the data parser sees that record again.
func parseDefinitions(src source.Source, st *parseState) (section.FlagBits, error) {
	var flagBits section.FlagBits

	for {
		headerBytes, err := src.ReadExact(section.RecordHeaderSize)
		if len(headerBytes) < section.RecordHeaderSize {
			return flagBits, nil
		}

		hdr := section.ParseRecordHeader(headerBytes)

		payload, err := src.ReadExact(int(hdr.MsgSize))
		if err != nil {
			return flagBits, nil
		}

		switch hdr.MsgType {
		case section.TagFormat:
			decl, ferr := registry.ParseFormatText(string(payload))
			if ferr != nil {
				st.model.FileCorrupt = true
				continue
			}

			st.registry.Register(decl)
			st.model.MessageFormats[decl.Name] = decl

		case section.TagInfo:
			applyInfoRecord(st.model, payload, st.cfg.lossyStrings)

		case section.TagInfoMulti:
			applyInfoMultiRecord(st.model, payload, st.cfg.lossyStrings)

		case section.TagParameter:
			field, ferr := parseInfoField(payload, st.cfg.lossyStrings)
			if ferr != nil {
				st.model.FileCorrupt = true
				continue
			}

			st.model.InitialParameters[field.Key] = field.Value

		case section.TagParameterDef:
			applyDefaultParameterRecord(st.model, payload, st.cfg.lossyStrings)

		case section.TagFlagBits:
			if len(payload) < 16 {
				st.model.FileCorrupt = true
				continue
			}

			flagBits = section.ParseFlagBits(payload)
			st.model.CompatFlags = flagBits.CompatFlags
			st.model.IncompatFlags = flagBits.IncompatFlags
			st.model.AppendedOffsets = flagBits.AppendedOffsets

			if flagBits.UnknownIncompatBitsSet() {
				return flagBits, errs.ErrUnknownIncompatFlag
			}

		case section.TagAddLogged, section.TagLogging, section.TagLoggingTagged:
			if _, serr := src.Seek(-(int64(section.RecordHeaderSize)+int64(hdr.MsgSize)), source.SeekCurrent); serr != nil {
				return flagBits, nil
			}

			return flagBits, nil

		default:
			// Unrecognised in the definitions block: already consumed
			// exactly msg_size bytes, so simply move on.
		}
	}
}

func applyInfoRecord(m *model.Model, payload []byte, lossy bool) {
	field, err := parseInfoField(payload, lossy)
	if err != nil {
		m.FileCorrupt = true
		return
	}

	m.InfoDict[field.Key] = model.InfoEntry{Type: field.TypeName, Value: field.Value}
}

func applyInfoMultiRecord(m *model.Model, payload []byte, lossy bool) {
	if len(payload) < 1 {
		m.FileCorrupt = true
		return
	}

	continuation := payload[0]

	field, err := parseInfoField(payload[1:], lossy)
	if err != nil {
		m.FileCorrupt = true
		return
	}

	entry, ok := m.InfoMultiDict[field.Key]
	if !ok {
		entry = model.InfoMultiEntry{Type: field.TypeName}
	}

	if continuation == 0 || len(entry.Segments) == 0 {
		entry.Segments = append(entry.Segments, []any{field.Value})
	} else {
		last := len(entry.Segments) - 1
		entry.Segments[last] = append(entry.Segments[last], field.Value)
	}

	m.InfoMultiDict[field.Key] = entry
}

func applyDefaultParameterRecord(m *model.Model, payload []byte, lossy bool) {
	if len(payload) < 1 {
		m.FileCorrupt = true
		return
	}

	bitfield := payload[0]

	field, err := parseInfoField(payload[1:], lossy)
	if err != nil {
		m.FileCorrupt = true
		return
	}

	for bit := 0; bit < 8; bit++ {
		if bitfield&(1<<uint(bit)) == 0 {
			continue
		}

		dict, ok := m.DefaultParameters[bit]
		if !ok {
			dict = make(map[string]any)
			m.DefaultParameters[bit] = dict
		}

		dict[field.Key] = field.Value
	}
}
