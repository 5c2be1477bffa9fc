package schema

// Kind represents the kind of a field type. The set is closed: the encoder
// dispatches over it exhaustively, so new kinds require new encoder arms.
type Kind string

const (
	KindVarint  Kind = "varint"  // base-128 scalar
	KindFixed   Kind = "fixed"   // little-endian 32/64-bit scalar
	KindMessage Kind = "message" // nested record, length-delimited
	KindList    Kind = "list"    // repeated elements, length-delimited
)

// Scalar identifies the declared value type of a varint or fixed field.
// It determines bit width, signedness and the varint mode.
type Scalar string

const (
	// Varint family.
	ScalarInt32  Scalar = "int32"
	ScalarInt64  Scalar = "int64"
	ScalarUint32 Scalar = "uint32"
	ScalarUint64 Scalar = "uint64"
	ScalarSint32 Scalar = "sint32" // zigzag
	ScalarSint64 Scalar = "sint64" // zigzag
	ScalarBool   Scalar = "bool"
	ScalarEnum   Scalar = "enum" // int32 ordinal

	// Fixed family.
	ScalarFixed32  Scalar = "fixed32"
	ScalarSfixed32 Scalar = "sfixed32"
	ScalarFloat    Scalar = "float"
	ScalarFixed64  Scalar = "fixed64"
	ScalarSfixed64 Scalar = "sfixed64"
	ScalarDouble   Scalar = "double"

	// ScalarByte is only valid as a list element; a byte list is the raw
	// byte-buffer fast path that carries string and bytes payloads.
	ScalarByte Scalar = "byte"
)

// IsVarint reports whether the scalar belongs to the varint family.
func (s Scalar) IsVarint() bool {
	switch s {
	case ScalarInt32, ScalarInt64, ScalarUint32, ScalarUint64,
		ScalarSint32, ScalarSint64, ScalarBool, ScalarEnum:
		return true
	}
	return false
}

// IsFixed reports whether the scalar belongs to the fixed-width family.
func (s Scalar) IsFixed() bool {
	switch s {
	case ScalarFixed32, ScalarSfixed32, ScalarFloat,
		ScalarFixed64, ScalarSfixed64, ScalarDouble, ScalarByte:
		return true
	}
	return false
}

// ZigZag reports whether the scalar uses zigzag varint mode.
func (s Scalar) ZigZag() bool {
	return s == ScalarSint32 || s == ScalarSint64
}

// Width returns the declared bit width of the scalar.
func (s Scalar) Width() int {
	switch s {
	case ScalarInt32, ScalarUint32, ScalarSint32, ScalarEnum,
		ScalarFixed32, ScalarSfixed32, ScalarFloat:
		return 32
	case ScalarInt64, ScalarUint64, ScalarSint64,
		ScalarFixed64, ScalarSfixed64, ScalarDouble:
		return 64
	case ScalarBool:
		return 32
	case ScalarByte:
		return 8
	}
	return 0
}

// FieldType represents field type information.
type FieldType struct {
	Kind    Kind       `json:"kind"`
	Scalar  Scalar     `json:"scalar,omitempty"`       // for varint and fixed kinds
	Message string     `json:"message_type,omitempty"` // message type name, diagnostics
	Ref     *Message   `json:"-"`                      // resolved message descriptor
	Elem    *FieldType `json:"element_type,omitempty"` // for list kind
}

// Field describes one entry of a descriptor table.
type Field struct {
	Name string    `json:"name"` // diagnostics only
	Tag  uint32    `json:"tag"`  // >0, unique within the message
	Type FieldType `json:"type"`
}

// Table is the ordered field-descriptor sequence of a message type.
// Encoding order follows table order, not the declaration order of the
// underlying data, and is byte-exact significant.
type Table []*Field

// Message represents a message type: a name plus its descriptor table.
type Message struct {
	Name   string `json:"name"`
	Fields Table  `json:"fields"`
}

// FieldByTag returns the descriptor with the given tag, or nil.
func (m *Message) FieldByTag(tag uint32) *Field {
	for _, f := range m.Fields {
		if f.Tag == tag {
			return f
		}
	}
	return nil
}

// FieldByName returns the descriptor with the given name, or nil.
func (m *Message) FieldByName(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
