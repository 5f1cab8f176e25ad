package registry

import (
	"testing"

	"github.com/px4go/ulog/errs"
	"github.com/px4go/ulog/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatText(t *testing.T) {
	decl, err := ParseFormatText("ping:uint64_t timestamp;float x;")
	require.NoError(t, err)
	assert.Equal(t, "ping", decl.Name)
	assert.Equal(t, []FieldDecl{
		{TypeName: "uint64_t", ArraySize: 1, FieldName: "timestamp"},
		{TypeName: "float", ArraySize: 1, FieldName: "x"},
	}, decl.Fields)
}

func TestParseFormatText_Array(t *testing.T) {
	decl, err := ParseFormatText("imu:uint64_t timestamp;float[3] accel;")
	require.NoError(t, err)
	assert.Equal(t, FieldDecl{TypeName: "float", ArraySize: 3, FieldName: "accel"}, decl.Fields[1])
}

func TestParseFormatText_Malformed(t *testing.T) {
	_, err := ParseFormatText("no colon here")
	assert.ErrorIs(t, err, errs.ErrMalformedFormat)

	_, err = ParseFormatText("name:badtoken")
	assert.ErrorIs(t, err, errs.ErrMalformedFormat)

	_, err = ParseFormatText("name:float[x bad;")
	assert.ErrorIs(t, err, errs.ErrMalformedFormat)
}

func TestRegistry_Resolve_Simple(t *testing.T) {
	r := New()
	decl, err := ParseFormatText("ping:uint64_t timestamp;float x;")
	require.NoError(t, err)
	r.Register(decl)

	schema, err := r.Resolve("ping")
	require.NoError(t, err)

	require.Len(t, schema.Columns, 2)
	assert.Equal(t, "timestamp", schema.Columns[0].Name)
	assert.Equal(t, format.KindUint64, schema.Columns[0].Kind)
	assert.Equal(t, 0, schema.Columns[0].Offset)
	assert.Equal(t, "x", schema.Columns[1].Name)
	assert.Equal(t, 8, schema.Columns[1].Offset)
	assert.Equal(t, 12, schema.RecordSize)
	assert.True(t, schema.HasTimestamp)
	assert.Equal(t, 0, schema.TimestampOffset)
}

func TestRegistry_Resolve_PrimitiveArrayFlattensToIndexedColumns(t *testing.T) {
	r := New()
	decl, err := ParseFormatText("imu:uint64_t timestamp;float[3] accel;")
	require.NoError(t, err)
	r.Register(decl)

	schema, err := r.Resolve("imu")
	require.NoError(t, err)

	require.Len(t, schema.Columns, 4)
	assert.Equal(t, []string{"timestamp", "accel[0]", "accel[1]", "accel[2]"}, names(schema.Columns))
	assert.Equal(t, 8+3*4, schema.RecordSize)
}

func TestRegistry_Resolve_NestedFormat(t *testing.T) {
	r := New()
	vec, err := ParseFormatText("vec3:float x;float y;float z;")
	require.NoError(t, err)
	r.Register(vec)

	sensor, err := ParseFormatText("sensor:uint64_t timestamp;vec3 accel;vec3[2] gyro;")
	require.NoError(t, err)
	r.Register(sensor)

	schema, err := r.Resolve("sensor")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"timestamp",
		"accel.x", "accel.y", "accel.z",
		"gyro[0].x", "gyro[0].y", "gyro[0].z",
		"gyro[1].x", "gyro[1].y", "gyro[1].z",
	}, names(schema.Columns))
}

func TestRegistry_Resolve_TrailingPaddingDropped(t *testing.T) {
	r := New()
	decl, err := ParseFormatText("ping:uint64_t timestamp;float x;uint8_t _padding0[3];")
	require.NoError(t, err)
	r.Register(decl)

	schema, err := r.Resolve("ping")
	require.NoError(t, err)

	assert.Equal(t, []string{"timestamp", "x"}, names(schema.Columns))
}

func TestRegistry_Resolve_NestedTrailingPaddingSurvives(t *testing.T) {
	r := New()
	inner, err := ParseFormatText("inner:float x;uint8_t _padding0[3];")
	require.NoError(t, err)
	r.Register(inner)

	outer, err := ParseFormatText("outer:uint64_t timestamp;inner nested;")
	require.NoError(t, err)
	r.Register(outer)

	schema, err := r.Resolve("outer")
	require.NoError(t, err)

	// "nested._padding0[i]" does not itself start with "_padding", so
	// unlike an unprefixed top-level padding field it survives flattening,
	// matching pyulog's literal prefix check on the fully flattened name.
	assert.Equal(t, []string{
		"timestamp", "nested.x",
		"nested._padding0[0]", "nested._padding0[1]", "nested._padding0[2]",
	}, names(schema.Columns))
}

func TestRegistry_Resolve_UnknownType(t *testing.T) {
	r := New()
	decl, err := ParseFormatText("ping:not_a_type x;")
	require.NoError(t, err)
	r.Register(decl)

	_, err = r.Resolve("ping")
	assert.ErrorIs(t, err, errs.ErrUnknownType)
}

func TestRegistry_Resolve_UnknownFormatName(t *testing.T) {
	r := New()
	_, err := r.Resolve("missing")
	assert.ErrorIs(t, err, errs.ErrUnknownType)
}

func TestRegistry_Resolve_CyclicFormat(t *testing.T) {
	r := New()
	a, _ := ParseFormatText("a:b field;")
	b, _ := ParseFormatText("b:a field;")
	r.Register(a)
	r.Register(b)

	_, err := r.Resolve("a")
	assert.ErrorIs(t, err, errs.ErrCyclicFormat)
}

func TestRegistry_Resolve_NoTimestampColumn(t *testing.T) {
	r := New()
	decl, _ := ParseFormatText("nostamp:float x;")
	r.Register(decl)

	schema, err := r.Resolve("nostamp")
	require.NoError(t, err)
	assert.False(t, schema.HasTimestamp)
	assert.Equal(t, 0, schema.TimestampOffset)
}

func TestRegistry_Resolve_CacheInvalidatedByRedeclaration(t *testing.T) {
	r := New()
	decl, _ := ParseFormatText("ping:uint64_t timestamp;float x;")
	r.Register(decl)

	first, err := r.Resolve("ping")
	require.NoError(t, err)
	assert.Equal(t, 12, first.RecordSize)

	redecl, _ := ParseFormatText("ping:uint64_t timestamp;double x;")
	r.Register(redecl)

	second, err := r.Resolve("ping")
	require.NoError(t, err)
	assert.Equal(t, 16, second.RecordSize)
}

func names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}

	return out
}
