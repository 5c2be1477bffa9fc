package wire

import (
	"encoding/binary"
	"math"
)

// FixedEncoder handles fixed-width encoding operations. Values are
// reinterpreted as unsigned bit patterns and appended little-endian,
// least-significant byte first, with no continuation bits.
type FixedEncoder struct {
	encoder *Encoder
}

// NewFixedEncoder creates a new fixed encoder.
func NewFixedEncoder(e *Encoder) *FixedEncoder {
	return &FixedEncoder{encoder: e}
}

// EncodeFixed32 encodes a 32-bit fixed-width value.
func (fe *FixedEncoder) EncodeFixed32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return fe.encoder.appendBytes(b[:])
}

// EncodeFixed64 encodes a 64-bit fixed-width value.
func (fe *FixedEncoder) EncodeFixed64(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return fe.encoder.appendBytes(b[:])
}

// EncodeSfixed32 encodes a signed 32-bit fixed-width value.
func (fe *FixedEncoder) EncodeSfixed32(v int32) error {
	return fe.EncodeFixed32(uint32(v))
}

// EncodeSfixed64 encodes a signed 64-bit fixed-width value.
func (fe *FixedEncoder) EncodeSfixed64(v int64) error {
	return fe.EncodeFixed64(uint64(v))
}

// EncodeFloat32 encodes a 32-bit float as fixed32.
func (fe *FixedEncoder) EncodeFloat32(v float32) error {
	return fe.EncodeFixed32(math.Float32bits(v))
}

// EncodeFloat64 encodes a 64-bit float as fixed64.
func (fe *FixedEncoder) EncodeFloat64(v float64) error {
	return fe.EncodeFixed64(math.Float64bits(v))
}

// EncodeFixed32 - convenience method for main encoder
func (e *Encoder) EncodeFixed32(v uint32) error {
	fe := NewFixedEncoder(e)
	return fe.EncodeFixed32(v)
}

// EncodeFixed64 - convenience method for main encoder
func (e *Encoder) EncodeFixed64(v uint64) error {
	fe := NewFixedEncoder(e)
	return fe.EncodeFixed64(v)
}
