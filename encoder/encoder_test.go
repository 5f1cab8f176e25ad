package encoder

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/px4go/ulog/decoder"
	"github.com/px4go/ulog/section"
	"github.com/px4go/ulog/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(version uint8, start uint64) []byte {
	buf := make([]byte, section.FileHeaderSize)
	copy(buf[0:7], section.Magic[:])
	buf[7] = version
	binary.LittleEndian.PutUint64(buf[8:16], start)

	return buf
}

func record(tag byte, payload []byte) []byte {
	buf := make([]byte, 0, section.RecordHeaderSize+len(payload))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(payload)))
	buf = append(buf, tag)
	buf = append(buf, payload...)

	return buf
}

func infoPayload(typeName, key string, value []byte) []byte {
	typeKey := typeName + " " + key

	buf := []byte{byte(len(typeKey))}
	buf = append(buf, typeKey...)
	buf = append(buf, value...)

	return buf
}

func addLoggedPayload(multiID uint8, msgID uint16, name string) []byte {
	buf := []byte{multiID}
	buf = binary.LittleEndian.AppendUint16(buf, msgID)
	buf = append(buf, name...)

	return buf
}

func dataPayload(msgID uint16, rec []byte) []byte {
	buf := binary.LittleEndian.AppendUint16(nil, msgID)
	return append(buf, rec...)
}

func pingRecord(ts uint64, x float32) []byte {
	buf := binary.LittleEndian.AppendUint64(nil, ts)
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(x))
}

// buildSampleLog produces a small, well-formed log exercising formats, info,
// parameters, a data subscription and a log message.
func buildSampleLog() []byte {
	var buf bytes.Buffer
	buf.Write(fileHeader(0, 100))
	buf.Write(record(section.TagInfo, infoPayload("char[4]", "sys_name", []byte("PX4"))))
	buf.Write(record(section.TagParameter, infoPayload("int32_t", "MAV_TYPE", binary.LittleEndian.AppendUint32(nil, 1))))
	buf.Write(record(section.TagFormat, []byte("ping:uint64_t timestamp;float x;")))
	buf.Write(record(section.TagAddLogged, addLoggedPayload(0, 1, "ping")))
	buf.Write(record(section.TagData, dataPayload(1, pingRecord(200, 1.0))))
	buf.Write(record(section.TagData, dataPayload(1, pingRecord(300, 2.0))))
	buf.Write(record(section.TagLogging, append(append([]byte{6}, binary.LittleEndian.AppendUint64(nil, 250)...), "hello"...)))

	return buf.Bytes()
}

func TestWrite_RoundTrip(t *testing.T) {
	m, err := decoder.Open(source.NewBuffer(buildSampleLog()))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(m, &out))

	reparsed, err := decoder.Open(source.NewBuffer(out.Bytes()))
	require.NoError(t, err)

	assert.True(t, m.Equal(reparsed), "round-tripped model does not match original")
}

func TestWrite_EmptyModelRoundTrip(t *testing.T) {
	m, err := decoder.Open(source.NewBuffer(fileHeader(2, 42)))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(m, &out))

	reparsed, err := decoder.Open(source.NewBuffer(out.Bytes()))
	require.NoError(t, err)

	assert.True(t, m.Equal(reparsed))
	assert.Equal(t, uint8(2), reparsed.FileVersion)
	assert.Equal(t, uint64(42), reparsed.StartTimestamp)
}

func TestWrite_ProducesWellFormedHeader(t *testing.T) {
	m, err := decoder.Open(source.NewBuffer(buildSampleLog()))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(m, &out))

	header, err := section.ParseFileHeader(out.Bytes()[:section.FileHeaderSize])
	require.NoError(t, err)
	assert.Equal(t, uint64(100), header.StartTimestamp)
}

func TestWrite_DefaultParameterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(fileHeader(0, 0))
	buf.Write(record(section.TagParameterDef, append([]byte{0x03}, infoPayload("float", "PARAM_A", binary.LittleEndian.AppendUint32(nil, math.Float32bits(3.5)))...)))

	m, err := decoder.Open(source.NewBuffer(buf.Bytes()))
	require.NoError(t, err)
	require.Contains(t, m.DefaultParameters, 0)
	require.Contains(t, m.DefaultParameters, 1)

	var out bytes.Buffer
	require.NoError(t, Write(m, &out))

	reparsed, err := decoder.Open(source.NewBuffer(out.Bytes()))
	require.NoError(t, err)
	assert.True(t, m.Equal(reparsed))
}
