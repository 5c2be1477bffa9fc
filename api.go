package wireform

import (
	"github.com/pkg/errors"

	"github.com/wireform/wireform/registry"
	"github.com/wireform/wireform/schema"
	"github.com/wireform/wireform/wire"
)

// ===== SCHEMA-AWARE API =====

// Wireform provides descriptor-driven wire encoding without generated code.
type Wireform struct {
	registry *registry.Registry
}

// New creates a new Wireform instance.
func New() *Wireform {
	return &Wireform{
		registry: registry.NewRegistry(),
	}
}

// LoadSchema parses the .proto file or directory at path and registers a
// descriptor table for every message type found.
func (w *Wireform) LoadSchema(path string) error {
	return w.registry.LoadSchema(path)
}

// Register validates and registers a hand-built message descriptor.
func (w *Wireform) Register(msg *schema.Message) error {
	return w.registry.Register(msg)
}

// NewRecord allocates an empty record for the named message type: every
// scalar absent, every container empty.
func (w *Wireform) NewRecord(messageType string) (*wire.Record, error) {
	msg, err := w.registry.GetMessage(messageType)
	if err != nil {
		return nil, errors.Wrap(err, "message type not found")
	}
	return wire.NewRecord(msg), nil
}

// Marshal encodes a record to wire bytes.
func (w *Wireform) Marshal(rec *wire.Record) ([]byte, error) {
	return wire.EncodeRecord(rec)
}

// ===== REGISTRY ACCESS =====

func (w *Wireform) GetRegistry() *registry.Registry { return w.registry }
func (w *Wireform) ListMessages() []string          { return w.registry.ListMessages() }
