// Package encoder serializes a model.Model back into the ULog wire format:
// a definitions block (flag bits, formats, info, parameters, add-logged
// declarations) followed by a single merged, timestamp-sorted data block.
// The encoder never reproduces sync markers, corruption, or appended
// regions; its output is always one contiguous, well-formed log.
package encoder

import (
	"io"
	"sort"

	"github.com/px4go/ulog/endian"
	"github.com/px4go/ulog/internal/pool"
	"github.com/px4go/ulog/model"
	"github.com/px4go/ulog/section"
)

// Write serializes m to w in ULog wire format.
func Write(m model.Model, w io.Writer) error {
	buf := pool.GetEncoderBuffer()
	defer pool.PutEncoderBuffer(buf)

	header := section.FileHeader{Version: m.FileVersion, StartTimestamp: m.StartTimestamp}
	buf.MustWrite(header.Bytes())

	flagBits := section.FlagBits{CompatFlags: m.CompatFlags, IncompatFlags: m.IncompatFlags}
	flagBits.IncompatFlags[0] &^= section.IncompatAppendedDataBit
	buf.MustWrite(appendRecord(nil, section.TagFlagBits, flagBits.Bytes()))

	if err := writeDefinitions(buf, m); err != nil {
		return err
	}

	if err := writeDataSection(buf, m); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)

	return err
}

// writeDefinitions emits every definitions-block record in a deterministic
// order: formats, info, info-multi, initial parameters, default parameters,
// then one add-logged-message record per dataset ordered by msg_id.
func writeDefinitions(buf *pool.ByteBuffer, m model.Model) error {
	for _, name := range sortedStringKeys(m.MessageFormats) {
		decl := m.MessageFormats[name]
		buf.MustWrite(appendRecord(nil, section.TagFormat, []byte(formatDeclText(decl))))
	}

	for _, key := range sortedStringKeys(m.InfoDict) {
		entry := m.InfoDict[key]

		payload, err := appendInfoField(nil, entry.Type, key, entry.Value)
		if err != nil {
			return err
		}

		buf.MustWrite(appendRecord(nil, section.TagInfo, payload))
	}

	if err := writeInfoMulti(buf, m); err != nil {
		return err
	}

	for _, key := range sortedStringKeys(m.InitialParameters) {
		payload, err := appendParameterField(nil, key, m.InitialParameters[key])
		if err != nil {
			return err
		}

		buf.MustWrite(appendRecord(nil, section.TagParameter, payload))
	}

	if err := writeDefaultParameters(buf, m); err != nil {
		return err
	}

	for _, ds := range sortedDatasetsByMsgID(m.DataList) {
		payload := []byte{ds.MultiID}
		payload = endian.LittleEndian.AppendUint16(payload, ds.MsgID)
		payload = append(payload, ds.Name...)

		buf.MustWrite(appendRecord(nil, section.TagAddLogged, payload))
	}

	return nil
}

func writeInfoMulti(buf *pool.ByteBuffer, m model.Model) error {
	for _, key := range sortedStringKeys(m.InfoMultiDict) {
		entry := m.InfoMultiDict[key]

		for _, segment := range entry.Segments {
			for valIdx, value := range segment {
				continuation := byte(0)
				if valIdx > 0 {
					continuation = 1
				}

				payload, err := appendInfoField([]byte{continuation}, entry.Type, key, value)
				if err != nil {
					return err
				}

				buf.MustWrite(appendRecord(nil, section.TagInfoMulti, payload))
			}
		}
	}

	return nil
}

func writeDefaultParameters(buf *pool.ByteBuffer, m model.Model) error {
	for _, bit := range sortedIntKeys(m.DefaultParameters) {
		dict := m.DefaultParameters[bit]

		for _, key := range sortedStringKeys(dict) {
			payload, err := appendParameterField([]byte{1 << uint(bit)}, key, dict[key])
			if err != nil {
				return err
			}

			buf.MustWrite(appendRecord(nil, section.TagParameterDef, payload))
		}
	}

	return nil
}

func writeDataSection(buf *pool.ByteBuffer, m model.Model) error {
	entries, err := buildTimeline(m)
	if err != nil {
		return err
	}

	for _, e := range entries {
		buf.MustWrite(e.record)
	}

	return nil
}

func sortedDatasetsByMsgID(list []model.Dataset) []model.Dataset {
	out := make([]model.Dataset, len(list))
	copy(out, list)

	sort.Slice(out, func(i, j int) bool { return out[i].MsgID < out[j].MsgID })

	return out
}
