package wire

import (
	"fmt"

	"github.com/wireform/wireform/schema"
)

// ===== PROTOBUF WIRE FORMAT TYPES =====

// WireType represents protobuf wire format types.
type WireType int32

const (
	WireVarint  WireType = 0 // varint scalars: ints, sints, bool, enum
	WireFixed64 WireType = 1 // fixed64, sfixed64, double
	WireBytes   WireType = 2 // submessages, lists, packed repeated fields
	WireFixed32 WireType = 5 // fixed32, sfixed32, float
)

// Tag represents a field tag word (field tag number + wire type).
type Tag uint64

// MakeTag creates a tag word from a field tag number and wire type.
func MakeTag(fieldTag uint32, wireType WireType) Tag {
	return Tag(uint64(fieldTag)<<3 | uint64(wireType))
}

// ParseTag splits a tag word into field tag number and wire type.
func ParseTag(tag Tag) (uint32, WireType) {
	return uint32(tag >> 3), WireType(tag & 0x7)
}

// WireTypeOf derives the wire type from a field type. It is a pure function
// of the descriptor. Widths other than 32/64 cannot reach here through a
// validated table; hitting one is a programming error, so it panics.
func WireTypeOf(t schema.FieldType) WireType {
	switch t.Kind {
	case schema.KindVarint:
		return WireVarint
	case schema.KindFixed:
		switch t.Scalar.Width() {
		case 64:
			return WireFixed64
		case 32:
			return WireFixed32
		}
		panic(fmt.Sprintf("wire: fixed-width scalar %q is not 32 or 64 bits", t.Scalar))
	case schema.KindMessage, schema.KindList:
		return WireBytes
	}
	panic(fmt.Sprintf("wire: unknown field kind %q", t.Kind))
}
