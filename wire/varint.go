package wire

// VarintEncoder handles base-128 varint encoding operations.
type VarintEncoder struct {
	encoder *Encoder
}

// NewVarintEncoder creates a new varint encoder.
func NewVarintEncoder(e *Encoder) *VarintEncoder {
	return &VarintEncoder{encoder: e}
}

// EncodeVarint appends the base-128 encoding of v.
//
// Values up to 0x7E take the single-byte fast path; it is the only branch
// that may emit zero. Larger values run the continuation loop, which emits
// 0x80|low7 per group and clears the continuation bit on the last byte. The
// loop must never be entered with value 0 (it would emit no bytes).
func (ve *VarintEncoder) EncodeVarint(v uint64) error {
	e := ve.encoder
	if v <= 0x7E {
		return e.appendByte(byte(v))
	}
	for v != 0 {
		if err := e.appendByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	e.buf[len(e.buf)-1] &^= 0x80
	return nil
}

// EncodeInt32 encodes an int32 as a plain varint.
//
// Negative values are encoded from the 32-bit two's-complement pattern, so
// they occupy at most 5 bytes. Canonical protobuf int32 sign-extends to 64
// bits and emits 10 bytes instead; callers that need those bytes should
// declare the field int64 or sint32.
func (ve *VarintEncoder) EncodeInt32(v int32) error {
	return ve.EncodeVarint(uint64(uint32(v)))
}

// EncodeInt64 encodes an int64 as a plain varint.
func (ve *VarintEncoder) EncodeInt64(v int64) error {
	return ve.EncodeVarint(uint64(v))
}

// EncodeUint32 encodes a uint32 as a varint.
func (ve *VarintEncoder) EncodeUint32(v uint32) error {
	return ve.EncodeVarint(uint64(v))
}

// EncodeUint64 encodes a uint64 as a varint.
func (ve *VarintEncoder) EncodeUint64(v uint64) error {
	return ve.EncodeVarint(v)
}

// EncodeSint32 encodes a signed int32 with zigzag encoding.
func (ve *VarintEncoder) EncodeSint32(v int32) error {
	return ve.EncodeVarint(EncodeZigZag32(v))
}

// EncodeSint64 encodes a signed int64 with zigzag encoding.
func (ve *VarintEncoder) EncodeSint64(v int64) error {
	return ve.EncodeVarint(EncodeZigZag64(v))
}

// EncodeBool encodes a bool as varint 0/1.
func (ve *VarintEncoder) EncodeBool(v bool) error {
	if v {
		return ve.EncodeVarint(1)
	}
	return ve.EncodeVarint(0)
}

// EncodeEnum encodes an enum ordinal as a plain varint, same width rule as
// EncodeInt32.
func (ve *VarintEncoder) EncodeEnum(v int32) error {
	return ve.EncodeVarint(uint64(uint32(v)))
}

// UTILITY FUNCTIONS

// EncodeZigZag32 encodes a signed 32-bit integer using zigzag encoding:
// 0→0, -1→1, 1→2, -2→3, 2→4, …
func EncodeZigZag32(v int32) uint64 {
	return uint64((uint32(v) << 1) ^ uint32(v>>31))
}

// EncodeZigZag64 encodes a signed 64-bit integer using zigzag encoding.
func EncodeZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// VarintSize returns the number of bytes EncodeVarint emits for v.
func VarintSize(v uint64) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	case v < 1<<28:
		return 4
	case v < 1<<35:
		return 5
	case v < 1<<42:
		return 6
	case v < 1<<49:
		return 7
	case v < 1<<56:
		return 8
	case v < 1<<63:
		return 9
	default:
		return 10
	}
}

// EncodeVarint - convenience method for main encoder
func (e *Encoder) EncodeVarint(v uint64) error {
	ve := NewVarintEncoder(e)
	return ve.EncodeVarint(v)
}
