package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wireform/wireform/schema"
)

func geoMessage() *schema.Message {
	point := &schema.Message{
		Name: "Point",
		Fields: schema.Table{
			{Name: "lat", Tag: 1, Type: schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarDouble}},
			{Name: "lon", Tag: 2, Type: schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarDouble}},
		},
	}
	return &schema.Message{
		Name: "Track",
		Fields: schema.Table{
			{Name: "id", Tag: 1, Type: schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarUint64}},
			{Name: "name", Tag: 2, Type: schema.FieldType{
				Kind: schema.KindList,
				Elem: &schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarByte},
			}},
			{Name: "origin", Tag: 3, Type: schema.FieldType{Kind: schema.KindMessage, Message: "Point", Ref: point}},
			{Name: "deltas", Tag: 4, Type: schema.FieldType{
				Kind: schema.KindList,
				Elem: &schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarSint32},
			}},
			{Name: "points", Tag: 5, Type: schema.FieldType{
				Kind: schema.KindList,
				Elem: &schema.FieldType{Kind: schema.KindMessage, Message: "Point", Ref: point},
			}},
		},
	}
}

func TestRecord_FreshIsEmpty(t *testing.T) {
	msg := geoMessage()
	require.NoError(t, msg.Validate())

	rec := NewRecord(msg)
	require.True(t, rec.IsEmpty())

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestRecord_ScalarPresence(t *testing.T) {
	rec := NewRecord(geoMessage())
	require.NoError(t, rec.Set(1, uint64(0)))
	require.False(t, rec.IsEmpty(), "an explicitly set zero is present")

	require.NoError(t, rec.Clear(1))
	require.True(t, rec.IsEmpty())
}

func TestRecord_SetTypeMismatch(t *testing.T) {
	rec := NewRecord(geoMessage())
	err := rec.Set(1, int32(5))
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected uint64")

	require.Error(t, rec.Set(99, uint64(1)), "unknown tag")
	require.Error(t, rec.Set(3, uint64(1)), "submessage is not a scalar")
	require.Error(t, rec.Append(1, int32(1)), "scalar is not a list")
}

func TestRecord_SubAndLists(t *testing.T) {
	rec := NewRecord(geoMessage())

	sub, err := rec.Sub(3)
	require.NoError(t, err)
	require.True(t, sub.IsEmpty())
	require.NoError(t, sub.Set(1, 52.52))
	require.False(t, rec.IsEmpty(), "populated submessage makes the field present")

	require.NoError(t, rec.Append(4, int32(-1)))
	require.NoError(t, rec.SetString(2, "berlin"))

	el, err := rec.AppendMessage(5)
	require.NoError(t, err)
	require.NoError(t, el.Set(2, 13.40))

	_, err = rec.AppendMessage(4)
	require.Error(t, err, "scalar list does not take message elements")
	_, err = rec.Sub(5)
	require.Error(t, err, "message list is not a singular submessage")
}

func TestRecord_TypedSetters(t *testing.T) {
	rec := NewRecord(geoMessage())
	require.NoError(t, rec.SetUint64(1, 42))
	require.NoError(t, rec.AppendInt32(4, -1))
	sub, err := rec.Sub(3)
	require.NoError(t, err)
	require.NoError(t, sub.SetDouble(1, 52.52))

	want := NewRecord(geoMessage())
	require.NoError(t, want.Set(1, uint64(42)))
	require.NoError(t, want.Append(4, int32(-1)))
	wsub, err := want.Sub(3)
	require.NoError(t, err)
	require.NoError(t, wsub.Set(1, 52.52))

	got, err := EncodeRecord(rec)
	require.NoError(t, err)
	expected, err := EncodeRecord(want)
	require.NoError(t, err)
	require.Equal(t, expected, got)

	require.Error(t, rec.SetInt32(1, 1), "id is uint64")
	require.Error(t, rec.AppendDouble(4, 1.0), "deltas hold sint32")
}

func TestRecord_ReleaseRestoresEmptyState(t *testing.T) {
	rec := NewRecord(geoMessage())

	require.NoError(t, rec.Set(1, uint64(42)))
	require.NoError(t, rec.SetBytes(2, []byte{1, 2, 3}))
	sub, err := rec.Sub(3)
	require.NoError(t, err)
	require.NoError(t, sub.Set(1, 1.5))
	_, err = rec.AppendMessage(5)
	require.NoError(t, err)

	rec.Release()
	require.True(t, rec.IsEmpty())

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Empty(t, out)

	// Releasing an untouched record is a no-op.
	rec.Release()
	require.True(t, rec.IsEmpty())
}

func TestRecord_SetBytesCopies(t *testing.T) {
	rec := NewRecord(geoMessage())
	buf := []byte{1, 2, 3}
	require.NoError(t, rec.SetBytes(2, buf))
	buf[0] = 9

	out, err := EncodeRecord(rec)
	require.NoError(t, err)
	require.Equal(t, []byte{0x12, 0x03, 0x01, 0x02, 0x03}, out)
}
