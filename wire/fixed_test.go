package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestFixedEncoder_LittleEndian(t *testing.T) {
	e := NewEncoder()
	fe := NewFixedEncoder(e)
	require.NoError(t, fe.EncodeFixed32(0x01020304))
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, e.Bytes())

	e.Reset()
	require.NoError(t, fe.EncodeFixed64(0x0102030405060708))
	require.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, e.Bytes())
}

func TestFixedEncoder_MatchesProtowire(t *testing.T) {
	e := NewEncoder()
	fe := NewFixedEncoder(e)
	require.NoError(t, fe.EncodeFixed32(0xDEADBEEF))
	require.Equal(t, protowire.AppendFixed32(nil, 0xDEADBEEF), e.Bytes())

	e.Reset()
	require.NoError(t, fe.EncodeFixed64(0xDEADBEEFCAFEF00D))
	require.Equal(t, protowire.AppendFixed64(nil, 0xDEADBEEFCAFEF00D), e.Bytes())
}

func TestFixedEncoder_FloatBits(t *testing.T) {
	e := NewEncoder()
	fe := NewFixedEncoder(e)
	require.NoError(t, fe.EncodeFloat32(1.0))
	require.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, e.Bytes())

	e.Reset()
	require.NoError(t, fe.EncodeFloat64(1.0))
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F}, e.Bytes())
}

func TestFixedEncoder_Signed(t *testing.T) {
	e := NewEncoder()
	fe := NewFixedEncoder(e)
	require.NoError(t, fe.EncodeSfixed32(-2))
	require.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF}, e.Bytes())

	e.Reset()
	require.NoError(t, fe.EncodeSfixed64(-2))
	require.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, e.Bytes())
}

func TestFixedEncoder_LimitExceeded(t *testing.T) {
	e := NewEncoderLimit(7)
	require.NoError(t, e.EncodeFixed32(1))
	require.ErrorIs(t, e.EncodeFixed64(1), ErrBufferLimit)
}
