package wire

import (
	"fmt"
	"math"

	"github.com/wireform/wireform/schema"
)

// Record is a strongly-typed value container for one message. Construction
// leaves every scalar absent and every container allocated but empty, so a
// fresh record encodes to zero bytes. A record exclusively owns its list
// containers and the nested records reachable through it; sharing and
// cycles are not permitted.
type Record struct {
	msg    *schema.Message
	fields map[uint32]*fieldValue
}

// fieldValue holds the current value of one descriptor-table entry. Scalars
// are stored as their declared-width bit pattern; the descriptor says how to
// interpret it at encode time.
type fieldValue struct {
	field *schema.Field
	set   bool      // scalar presence
	num   uint64    // scalar bit pattern
	list  []uint64  // scalar list elements, bit patterns
	raw   []byte    // byte-list fast path
	sub   *Record   // singular submessage, pre-allocated
	subs  []*Record // message list elements
}

// NewRecord allocates a record for the given message type. Nested singular
// submessage records are allocated recursively, which requires the schema to
// be acyclic (a data-model invariant owned by the schema author, not
// enforced here).
func NewRecord(msg *schema.Message) *Record {
	r := &Record{
		msg:    msg,
		fields: make(map[uint32]*fieldValue, len(msg.Fields)),
	}
	for _, f := range msg.Fields {
		fv := &fieldValue{field: f}
		if f.Type.Kind == schema.KindMessage {
			fv.sub = NewRecord(f.Type.Ref)
		}
		r.fields[f.Tag] = fv
	}
	return r
}

// Descriptor returns the message type this record was built from.
func (r *Record) Descriptor() *schema.Message {
	return r.msg
}

// IsEmpty reports whether the record would encode to zero bytes: every
// scalar absent and every container empty.
func (r *Record) IsEmpty() bool {
	for _, f := range r.msg.Fields {
		if !r.fields[f.Tag].empty() {
			return false
		}
	}
	return true
}

func (fv *fieldValue) empty() bool {
	switch fv.field.Type.Kind {
	case schema.KindVarint, schema.KindFixed:
		return !fv.set
	case schema.KindMessage:
		return fv.sub.IsEmpty()
	case schema.KindList:
		return len(fv.list) == 0 && len(fv.raw) == 0 && len(fv.subs) == 0
	}
	return true
}

// Release clears every owned container reachable from the record, in table
// order, and returns it to its freshly-constructed state. Releasing a record
// that was never populated is a no-op. The record must not be used for
// encoding concurrently with Release.
func (r *Record) Release() {
	for _, f := range r.msg.Fields {
		fv := r.fields[f.Tag]
		fv.set = false
		fv.num = 0
		fv.list = nil
		fv.raw = nil
		for _, el := range fv.subs {
			el.Release()
		}
		fv.subs = nil
		if fv.sub != nil {
			fv.sub.Release()
		}
	}
}

func (r *Record) lookup(tag uint32) (*fieldValue, error) {
	fv, ok := r.fields[tag]
	if !ok {
		return nil, fmt.Errorf("message %s has no field with tag %d", r.msg.Name, tag)
	}
	return fv, nil
}

// Set assigns a scalar field value. The value's Go type must match the
// field's declared scalar type: int32 for int32/sint32/enum, int64 for
// int64/sint64, uint32/uint64 for the unsigned types, bool, float32 for
// float, float64 for double, uint32/uint64 for fixed, int32/int64 for
// sfixed.
func (r *Record) Set(tag uint32, value interface{}) error {
	fv, err := r.lookup(tag)
	if err != nil {
		return err
	}
	f := fv.field
	if f.Type.Kind != schema.KindVarint && f.Type.Kind != schema.KindFixed {
		return fmt.Errorf("field %s is not a scalar", f.Name)
	}
	pattern, err := scalarPattern(f.Type.Scalar, value)
	if err != nil {
		return wrapWithField(err, f.Name)
	}
	fv.num = pattern
	fv.set = true
	return nil
}

// Clear returns a scalar field to the absent state.
func (r *Record) Clear(tag uint32) error {
	fv, err := r.lookup(tag)
	if err != nil {
		return err
	}
	fv.set = false
	fv.num = 0
	return nil
}

// Append adds one element to a scalar list field. Byte lists take their
// elements through SetBytes/SetString instead.
func (r *Record) Append(tag uint32, value interface{}) error {
	fv, err := r.lookup(tag)
	if err != nil {
		return err
	}
	f := fv.field
	if f.Type.Kind != schema.KindList || f.Type.Elem == nil {
		return fmt.Errorf("field %s is not a list", f.Name)
	}
	elem := f.Type.Elem
	switch elem.Kind {
	case schema.KindVarint, schema.KindFixed:
	default:
		return fmt.Errorf("field %s holds messages, use AppendMessage", f.Name)
	}
	if elem.Scalar == schema.ScalarByte {
		b, ok := value.(byte)
		if !ok {
			return wrapWithField(fmt.Errorf("expected byte, got %T", value), f.Name)
		}
		fv.raw = append(fv.raw, b)
		return nil
	}
	pattern, err := scalarPattern(elem.Scalar, value)
	if err != nil {
		return wrapWithField(err, f.Name)
	}
	fv.list = append(fv.list, pattern)
	return nil
}

// Typed setter conveniences over Set.

func (r *Record) SetInt32(tag uint32, v int32) error    { return r.Set(tag, v) }
func (r *Record) SetInt64(tag uint32, v int64) error    { return r.Set(tag, v) }
func (r *Record) SetUint32(tag uint32, v uint32) error  { return r.Set(tag, v) }
func (r *Record) SetUint64(tag uint32, v uint64) error  { return r.Set(tag, v) }
func (r *Record) SetBool(tag uint32, v bool) error      { return r.Set(tag, v) }
func (r *Record) SetEnum(tag uint32, v int32) error     { return r.Set(tag, v) }
func (r *Record) SetFloat(tag uint32, v float32) error  { return r.Set(tag, v) }
func (r *Record) SetDouble(tag uint32, v float64) error { return r.Set(tag, v) }

// Typed appender conveniences over Append.

func (r *Record) AppendInt32(tag uint32, v int32) error    { return r.Append(tag, v) }
func (r *Record) AppendInt64(tag uint32, v int64) error    { return r.Append(tag, v) }
func (r *Record) AppendUint32(tag uint32, v uint32) error  { return r.Append(tag, v) }
func (r *Record) AppendUint64(tag uint32, v uint64) error  { return r.Append(tag, v) }
func (r *Record) AppendFloat(tag uint32, v float32) error  { return r.Append(tag, v) }
func (r *Record) AppendDouble(tag uint32, v float64) error { return r.Append(tag, v) }

// SetBytes replaces the contents of a byte-list field. The slice is copied;
// the record owns its containers.
func (r *Record) SetBytes(tag uint32, data []byte) error {
	fv, err := r.lookup(tag)
	if err != nil {
		return err
	}
	f := fv.field
	if f.Type.Kind != schema.KindList || f.Type.Elem == nil || f.Type.Elem.Scalar != schema.ScalarByte {
		return fmt.Errorf("field %s is not a byte list", f.Name)
	}
	fv.raw = append(fv.raw[:0], data...)
	return nil
}

// SetString replaces the contents of a byte-list field with the string's
// bytes.
func (r *Record) SetString(tag uint32, s string) error {
	return r.SetBytes(tag, []byte(s))
}

// Sub returns the pre-allocated record of a singular submessage field.
func (r *Record) Sub(tag uint32) (*Record, error) {
	fv, err := r.lookup(tag)
	if err != nil {
		return nil, err
	}
	if fv.field.Type.Kind != schema.KindMessage {
		return nil, fmt.Errorf("field %s is not a submessage", fv.field.Name)
	}
	return fv.sub, nil
}

// AppendMessage allocates, appends and returns a new element record for a
// list-of-message field.
func (r *Record) AppendMessage(tag uint32) (*Record, error) {
	fv, err := r.lookup(tag)
	if err != nil {
		return nil, err
	}
	f := fv.field
	if f.Type.Kind != schema.KindList || f.Type.Elem == nil || f.Type.Elem.Kind != schema.KindMessage {
		return nil, fmt.Errorf("field %s is not a message list", f.Name)
	}
	el := NewRecord(f.Type.Elem.Ref)
	fv.subs = append(fv.subs, el)
	return el, nil
}

// scalarPattern converts a Go value into the declared-width bit pattern the
// record stores. Narrow signed values keep their declared width here, which
// is what makes plain-varint encoding of negatives truncate instead of
// sign-extend.
func scalarPattern(s schema.Scalar, value interface{}) (uint64, error) {
	switch s {
	case schema.ScalarInt32, schema.ScalarSint32, schema.ScalarEnum:
		v, ok := value.(int32)
		if !ok {
			return 0, fmt.Errorf("expected int32 for %s, got %T", s, value)
		}
		return uint64(uint32(v)), nil
	case schema.ScalarInt64, schema.ScalarSint64:
		v, ok := value.(int64)
		if !ok {
			return 0, fmt.Errorf("expected int64 for %s, got %T", s, value)
		}
		return uint64(v), nil
	case schema.ScalarUint32:
		v, ok := value.(uint32)
		if !ok {
			return 0, fmt.Errorf("expected uint32 for %s, got %T", s, value)
		}
		return uint64(v), nil
	case schema.ScalarUint64:
		v, ok := value.(uint64)
		if !ok {
			return 0, fmt.Errorf("expected uint64 for %s, got %T", s, value)
		}
		return v, nil
	case schema.ScalarBool:
		v, ok := value.(bool)
		if !ok {
			return 0, fmt.Errorf("expected bool, got %T", value)
		}
		if v {
			return 1, nil
		}
		return 0, nil
	case schema.ScalarFixed32:
		v, ok := value.(uint32)
		if !ok {
			return 0, fmt.Errorf("expected uint32 for %s, got %T", s, value)
		}
		return uint64(v), nil
	case schema.ScalarSfixed32:
		v, ok := value.(int32)
		if !ok {
			return 0, fmt.Errorf("expected int32 for %s, got %T", s, value)
		}
		return uint64(uint32(v)), nil
	case schema.ScalarFloat:
		v, ok := value.(float32)
		if !ok {
			return 0, fmt.Errorf("expected float32 for %s, got %T", s, value)
		}
		return uint64(math.Float32bits(v)), nil
	case schema.ScalarFixed64:
		v, ok := value.(uint64)
		if !ok {
			return 0, fmt.Errorf("expected uint64 for %s, got %T", s, value)
		}
		return v, nil
	case schema.ScalarSfixed64:
		v, ok := value.(int64)
		if !ok {
			return 0, fmt.Errorf("expected int64 for %s, got %T", s, value)
		}
		return uint64(v), nil
	case schema.ScalarDouble:
		v, ok := value.(float64)
		if !ok {
			return 0, fmt.Errorf("expected float64 for %s, got %T", s, value)
		}
		return math.Float64bits(v), nil
	}
	return 0, fmt.Errorf("unsupported scalar type %q", s)
}
