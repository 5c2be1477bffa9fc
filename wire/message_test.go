package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/wireform/wireform/schema"
)

func varintField(name string, tag uint32, s schema.Scalar) *schema.Field {
	return &schema.Field{Name: name, Tag: tag, Type: schema.FieldType{Kind: schema.KindVarint, Scalar: s}}
}

func TestWireTypeOf(t *testing.T) {
	tests := []struct {
		ft   schema.FieldType
		want WireType
	}{
		{schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarInt32}, WireVarint},
		{schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarBool}, WireVarint},
		{schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarFixed64}, WireFixed64},
		{schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarFloat}, WireFixed32},
		{schema.FieldType{Kind: schema.KindMessage}, WireBytes},
		{schema.FieldType{Kind: schema.KindList, Elem: &schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarInt32}}, WireBytes},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, WireTypeOf(tt.ft))
	}
}

func TestWireTypeOf_BadWidthPanics(t *testing.T) {
	require.Panics(t, func() {
		WireTypeOf(schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarByte})
	})
}

func TestMakeTag(t *testing.T) {
	require.Equal(t, Tag(0x08), MakeTag(1, WireVarint))
	require.Equal(t, Tag(0x12), MakeTag(2, WireBytes))
	require.Equal(t, Tag(0x25), MakeTag(4, WireFixed32))

	tag, wt := ParseTag(MakeTag(12, WireFixed64))
	require.Equal(t, uint32(12), tag)
	require.Equal(t, WireFixed64, wt)
}

func TestEncodeRecord_SingleVarintField(t *testing.T) {
	msg := &schema.Message{Name: "M", Fields: schema.Table{varintField("count", 1, schema.ScalarUint64)}}
	rec := NewRecord(msg)
	require.NoError(t, rec.Set(1, uint64(150)))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x08, 0x96, 0x01}, out)

	want := protowire.AppendVarint(protowire.AppendTag(nil, 1, protowire.VarintType), 150)
	require.Equal(t, want, out)
}

func TestEncodeRecord_TableOrderWins(t *testing.T) {
	// Table order is id then flag; setting in reverse order must not change
	// the byte layout.
	msg := &schema.Message{Name: "M", Fields: schema.Table{
		varintField("id", 2, schema.ScalarUint32),
		varintField("flag", 1, schema.ScalarBool),
	}}
	rec := NewRecord(msg)
	require.NoError(t, rec.Set(1, true))
	require.NoError(t, rec.Set(2, uint32(3)))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x10, 0x03, 0x08, 0x01}, out)
}

func TestEncodeRecord_PackedVarintList(t *testing.T) {
	msg := &schema.Message{Name: "M", Fields: schema.Table{
		{Name: "values", Tag: 4, Type: schema.FieldType{
			Kind: schema.KindList,
			Elem: &schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarUint64},
		}},
	}}
	rec := NewRecord(msg)
	for _, v := range []uint64{1, 2, 3} {
		require.NoError(t, rec.Append(4, v))
	}

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x22, 0x03, 0x01, 0x02, 0x03}, out)
}

func TestEncodeRecord_PackedFixedList(t *testing.T) {
	msg := &schema.Message{Name: "M", Fields: schema.Table{
		{Name: "words", Tag: 5, Type: schema.FieldType{
			Kind: schema.KindList,
			Elem: &schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarFixed32},
		}},
	}}
	rec := NewRecord(msg)
	require.NoError(t, rec.Append(5, uint32(0x01020304)))
	require.NoError(t, rec.Append(5, uint32(1)))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x2A, 0x08, 0x04, 0x03, 0x02, 0x01, 0x01, 0x00, 0x00, 0x00}, out)
}

func TestEncodeRecord_ByteListFastPath(t *testing.T) {
	msg := &schema.Message{Name: "M", Fields: schema.Table{
		{Name: "name", Tag: 2, Type: schema.FieldType{
			Kind: schema.KindList,
			Elem: &schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarByte},
		}},
	}}
	rec := NewRecord(msg)
	require.NoError(t, rec.SetString(2, "hi"))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x12, 0x02, 'h', 'i'}, out)
	require.Equal(t, protowire.AppendString(protowire.AppendTag(nil, 2, protowire.BytesType), "hi"), out)
}

func TestEncodeRecord_LongByteListLength(t *testing.T) {
	msg := &schema.Message{Name: "M", Fields: schema.Table{
		{Name: "blob", Tag: 1, Type: schema.FieldType{
			Kind: schema.KindList,
			Elem: &schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarByte},
		}},
	}}
	payload := bytes.Repeat([]byte{0x5A}, 200)
	rec := NewRecord(msg)
	require.NoError(t, rec.SetBytes(1, payload))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, protowire.AppendBytes(protowire.AppendTag(nil, 1, protowire.BytesType), payload), out)
}

func TestEncodeRecord_Submessage(t *testing.T) {
	inner := &schema.Message{Name: "Inner", Fields: schema.Table{varintField("v", 1, schema.ScalarUint64)}}
	msg := &schema.Message{Name: "Outer", Fields: schema.Table{
		{Name: "inner", Tag: 3, Type: schema.FieldType{Kind: schema.KindMessage, Message: "Inner", Ref: inner}},
	}}

	rec := NewRecord(msg)
	sub, err := rec.Sub(3)
	require.NoError(t, err)
	require.NoError(t, sub.Set(1, uint64(150)))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	// (3<<3)|2, len 3, then inner record 08 96 01.
	require.Equal(t, []byte{0x1A, 0x03, 0x08, 0x96, 0x01}, out)
}

func TestEncodeRecord_DeepNesting(t *testing.T) {
	leaf := &schema.Message{Name: "Leaf", Fields: schema.Table{varintField("v", 1, schema.ScalarUint64)}}
	mid := &schema.Message{Name: "Mid", Fields: schema.Table{
		{Name: "leaf", Tag: 1, Type: schema.FieldType{Kind: schema.KindMessage, Message: "Leaf", Ref: leaf}},
	}}
	top := &schema.Message{Name: "Top", Fields: schema.Table{
		{Name: "mid", Tag: 1, Type: schema.FieldType{Kind: schema.KindMessage, Message: "Mid", Ref: mid}},
	}}

	rec := NewRecord(top)
	m, err := rec.Sub(1)
	require.NoError(t, err)
	l, err := m.Sub(1)
	require.NoError(t, err)
	require.NoError(t, l.Set(1, uint64(1)))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x0A, 0x04, 0x0A, 0x02, 0x08, 0x01}, out)
}

// A message list emits one outer tag and one outer length for the whole
// list; each element is length-prefixed with no per-element tag. Canonical
// protobuf repeats tag+length+payload per element instead.
func TestEncodeRecord_MessageListFraming(t *testing.T) {
	item := &schema.Message{Name: "Item", Fields: schema.Table{varintField("v", 1, schema.ScalarUint64)}}
	msg := &schema.Message{Name: "M", Fields: schema.Table{
		{Name: "items", Tag: 6, Type: schema.FieldType{
			Kind: schema.KindList,
			Elem: &schema.FieldType{Kind: schema.KindMessage, Message: "Item", Ref: item},
		}},
	}}

	rec := NewRecord(msg)
	for _, v := range []uint64{1, 2} {
		el, err := rec.AppendMessage(6)
		require.NoError(t, err)
		require.NoError(t, el.Set(1, v))
	}

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x32, 0x06, 0x02, 0x08, 0x01, 0x02, 0x08, 0x02}, out)

	canonical := protowire.AppendBytes(protowire.AppendTag(nil, 6, protowire.BytesType), []byte{0x08, 0x01})
	canonical = protowire.AppendBytes(protowire.AppendTag(canonical, 6, protowire.BytesType), []byte{0x08, 0x02})
	require.NotEqual(t, canonical, out)
}

func TestEncodeRecord_EmptyContainersEmitNothing(t *testing.T) {
	rec := NewRecord(geoMessage())
	// Pre-allocated submessage, empty lists: nothing present.
	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEncodeRecord_SkipsAbsentAmongPresent(t *testing.T) {
	rec := NewRecord(geoMessage())
	require.NoError(t, rec.Set(1, uint64(7)))
	require.NoError(t, rec.Append(4, int32(-1)))

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	// id then deltas, nothing for name/origin/points.
	require.Equal(t, []byte{0x08, 0x07, 0x22, 0x01, 0x01}, out)
}

func TestEncodeRecordLimit_PropagatesBufferLimit(t *testing.T) {
	rec := NewRecord(geoMessage())
	require.NoError(t, rec.SetBytes(2, bytes.Repeat([]byte{1}, 64)))

	_, err := EncodeRecordLimit(rec, 16)
	require.ErrorIs(t, err, ErrBufferLimit)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, []string{"name"}, fe.FieldPath)
}

func TestEncodeRecord_FieldPathOnNestedFailure(t *testing.T) {
	rec := NewRecord(geoMessage())
	sub, err := rec.Sub(3)
	require.NoError(t, err)
	require.NoError(t, sub.Set(1, 52.52))
	require.NoError(t, sub.Set(2, 13.40))

	_, err = EncodeRecordLimit(rec, 4)
	require.ErrorIs(t, err, ErrBufferLimit)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "origin", fe.FieldPath[0])
}
