package schema

import "fmt"

// DefinitionError reports a malformed descriptor table. It is a programming
// error in the schema declaration, caught when the table is defined or
// loaded, never during encoding.
type DefinitionError struct {
	Message string // message type name
	Field   string // field name, empty for table-level problems
	Reason  string
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: message %s: %s", e.Message, e.Reason)
	}
	return fmt.Sprintf("schema: message %s, field %s: %s", e.Message, e.Field, e.Reason)
}

// Validate checks the message's descriptor table and, recursively, every
// message type reachable from it. Tables that pass are safe to hand to the
// wire encoder.
func (m *Message) Validate() error {
	return m.validate(map[*Message]struct{}{})
}

func (m *Message) validate(seen map[*Message]struct{}) error {
	if _, ok := seen[m]; ok {
		return nil
	}
	seen[m] = struct{}{}

	tags := make(map[uint32]string, len(m.Fields))
	for _, f := range m.Fields {
		if f.Tag == 0 {
			return &DefinitionError{Message: m.Name, Field: f.Name, Reason: "field tag must be > 0"}
		}
		if prev, dup := tags[f.Tag]; dup {
			return &DefinitionError{
				Message: m.Name, Field: f.Name,
				Reason: fmt.Sprintf("duplicate tag %d, already used by %s", f.Tag, prev),
			}
		}
		tags[f.Tag] = f.Name

		if err := m.validateType(f.Name, &f.Type, false, seen); err != nil {
			return err
		}
	}
	return nil
}

func (m *Message) validateType(fieldName string, t *FieldType, element bool, seen map[*Message]struct{}) error {
	fail := func(reason string) error {
		return &DefinitionError{Message: m.Name, Field: fieldName, Reason: reason}
	}

	switch t.Kind {
	case KindVarint:
		if !t.Scalar.IsVarint() {
			return fail(fmt.Sprintf("scalar %q is not a varint type", t.Scalar))
		}
	case KindFixed:
		if !t.Scalar.IsFixed() {
			return fail(fmt.Sprintf("scalar %q is not a fixed-width type", t.Scalar))
		}
		switch w := t.Scalar.Width(); w {
		case 32, 64:
		case 8:
			if !element {
				return fail("byte scalar is only valid as a list element")
			}
		default:
			return fail(fmt.Sprintf("fixed-width field must be 32 or 64 bits, got %d", w))
		}
	case KindMessage:
		if t.Ref == nil {
			return fail(fmt.Sprintf("message type %q is not resolved", t.Message))
		}
		if err := t.Ref.validate(seen); err != nil {
			return err
		}
	case KindList:
		if element {
			return fail("lists do not nest")
		}
		if t.Elem == nil {
			return fail("list field has no element type")
		}
		if t.Elem.Kind == KindList {
			return fail("lists do not nest")
		}
		if err := m.validateType(fieldName, t.Elem, true, seen); err != nil {
			return err
		}
	default:
		return fail(fmt.Sprintf("unknown field kind %q", t.Kind))
	}
	return nil
}
