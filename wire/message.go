package wire

import (
	"fmt"

	"github.com/wireform/wireform/schema"
)

// RecordEncoder walks a record's descriptor table in table order and emits
// every present field as tag word + value encoding. Absent scalars and
// empty containers emit nothing.
type RecordEncoder struct {
	encoder *Encoder
}

// NewRecordEncoder creates a new record encoder.
func NewRecordEncoder(e *Encoder) *RecordEncoder {
	return &RecordEncoder{encoder: e}
}

// EncodeRecord encodes a record to wire bytes - main entry point. A record
// with nothing populated yields an empty, non-nil byte slice. On error no
// partial output is returned.
func EncodeRecord(rec *Record) ([]byte, error) {
	return encodeRecord(rec, NewEncoder())
}

// EncodeRecordLimit is EncodeRecord with a cap on output growth; exceeding
// it fails the whole encode with ErrBufferLimit.
func EncodeRecordLimit(rec *Record, limit int) ([]byte, error) {
	return encodeRecord(rec, NewEncoderLimit(limit))
}

func encodeRecord(rec *Record, e *Encoder) ([]byte, error) {
	re := NewRecordEncoder(e)
	if err := re.EncodeRecord(rec); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeRecord appends the record's wire encoding to the underlying buffer.
func (re *RecordEncoder) EncodeRecord(rec *Record) error {
	for _, f := range rec.msg.Fields {
		fv := rec.fields[f.Tag]
		if fv.empty() {
			continue
		}
		if err := re.encodeField(fv, f); err != nil {
			return wrapWithField(err, f.Name)
		}
	}
	return nil
}

// encodeField emits the tag word followed by the field's value encoding.
func (re *RecordEncoder) encodeField(fv *fieldValue, f *schema.Field) error {
	ve := NewVarintEncoder(re.encoder)
	if err := ve.EncodeVarint(uint64(MakeTag(f.Tag, WireTypeOf(f.Type)))); err != nil {
		return err
	}

	switch f.Type.Kind {
	case schema.KindVarint:
		return re.encodeVarintScalar(fv.num, f.Type.Scalar)
	case schema.KindFixed:
		return re.encodeFixedScalar(fv.num, f.Type.Scalar)
	case schema.KindMessage:
		return re.encodeSub(fv.sub)
	case schema.KindList:
		return re.encodeList(fv, f.Type.Elem)
	}
	panic(fmt.Sprintf("wire: unknown field kind %q", f.Type.Kind))
}

// encodeVarintScalar encodes a stored bit pattern per the scalar's varint
// mode. Plain-mode patterns were truncated to their declared width when the
// value was set, so they encode as-is.
func (re *RecordEncoder) encodeVarintScalar(pattern uint64, s schema.Scalar) error {
	ve := NewVarintEncoder(re.encoder)
	switch s {
	case schema.ScalarSint32:
		return ve.EncodeSint32(int32(uint32(pattern)))
	case schema.ScalarSint64:
		return ve.EncodeSint64(int64(pattern))
	default:
		return ve.EncodeVarint(pattern)
	}
}

func (re *RecordEncoder) encodeFixedScalar(pattern uint64, s schema.Scalar) error {
	fe := NewFixedEncoder(re.encoder)
	switch s.Width() {
	case 32:
		return fe.EncodeFixed32(uint32(pattern))
	case 64:
		return fe.EncodeFixed64(pattern)
	}
	panic(fmt.Sprintf("wire: fixed-width scalar %q is not 32 or 64 bits", s))
}

// encodeSub emits the nested record's encoding, length-prefixed.
func (re *RecordEncoder) encodeSub(sub *Record) error {
	mark := re.encoder.BeginDelimited()
	if err := re.EncodeRecord(sub); err != nil {
		return err
	}
	return re.encoder.EndDelimited(mark)
}

// encodeList emits one length-delimited record for the whole list.
//
// Scalar elements are packed: varints or raw little-endian words back to
// back, no per-element framing. Message elements are each length-prefixed
// individually with no per-element tag; canonical protobuf instead repeats
// tag+length+payload per element, so repeated-message fields from this
// encoder are framed differently from the standard wire format.
func (re *RecordEncoder) encodeList(fv *fieldValue, elem *schema.FieldType) error {
	mark := re.encoder.BeginDelimited()

	switch elem.Kind {
	case schema.KindVarint:
		for _, p := range fv.list {
			if err := re.encodeVarintScalar(p, elem.Scalar); err != nil {
				return err
			}
		}
	case schema.KindFixed:
		if elem.Scalar == schema.ScalarByte {
			if err := re.encoder.appendBytes(fv.raw); err != nil {
				return err
			}
			break
		}
		for _, p := range fv.list {
			if err := re.encodeFixedScalar(p, elem.Scalar); err != nil {
				return err
			}
		}
	case schema.KindMessage:
		for _, el := range fv.subs {
			if err := re.encodeSub(el); err != nil {
				return err
			}
		}
	default:
		panic(fmt.Sprintf("wire: unknown list element kind %q", elem.Kind))
	}

	return re.encoder.EndDelimited(mark)
}

// EncodeRecord - convenience method for main encoder
func (e *Encoder) EncodeRecord(rec *Record) error {
	re := NewRecordEncoder(e)
	return re.EncodeRecord(rec)
}
