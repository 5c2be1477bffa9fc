package registry

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/wireform/wireform/schema"
)

// Registry stores validated message descriptors by fully qualified name.
// The encode driver learns field tags, names and types only through these
// tables; there is no runtime introspection fallback.
type Registry struct {
	messages map[string]*schema.Message
	enums    map[string]*Enum
}

// Enum is the named value set of a proto enum type. The wire layer encodes
// enums as plain int32 ordinals; the names exist so callers can populate
// records from symbolic input.
type Enum struct {
	Name   string
	Values map[string]int32 // value name -> ordinal
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		messages: make(map[string]*schema.Message),
		enums:    make(map[string]*Enum),
	}
}

// Register validates a hand-built message descriptor and stores it under its
// name. This is the primary declaration mechanism; LoadSchema is a
// convenience on top of it.
func (r *Registry) Register(msg *schema.Message) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrapf(err, "register message %s", msg.Name)
	}
	r.messages[msg.Name] = msg
	return nil
}

// GetMessage retrieves a message descriptor by name. A bare name matches a
// registered qualified name by suffix, so callers may omit the package
// qualifier.
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}
	for fullName, msg := range r.messages {
		if strings.HasSuffix(fullName, "."+name) {
			return msg, nil
		}
	}
	return nil, errors.Errorf("message not found: %s", name)
}

// GetEnum retrieves an enum definition by name.
func (r *Registry) GetEnum(name string) (*Enum, error) {
	if e, exists := r.enums[name]; exists {
		return e, nil
	}
	for fullName, e := range r.enums {
		if strings.HasSuffix(fullName, "."+name) {
			return e, nil
		}
	}
	return nil, errors.Errorf("enum not found: %s", name)
}

// ListMessages returns all registered message names.
func (r *Registry) ListMessages() []string {
	var names []string
	for name := range r.messages {
		names = append(names, name)
	}
	return names
}

// ListEnums returns all registered enum names.
func (r *Registry) ListEnums() []string {
	var names []string
	for name := range r.enums {
		names = append(names, name)
	}
	return names
}
