package wireform

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wireform/wireform/schema"
	"github.com/wireform/wireform/wire"
)

// Populate fills a record from a generic map keyed by field name, coercing
// JSON-decoded values (float64 numbers, strings, nested maps, slices) onto
// the descriptor's declared types. Unknown keys are an error: a typo would
// otherwise silently drop a field.
func (w *Wireform) Populate(rec *wire.Record, data map[string]interface{}) error {
	msg := rec.Descriptor()
	for name, value := range data {
		field := msg.FieldByName(name)
		if field == nil {
			return errors.Errorf("message %s has no field named %s", msg.Name, name)
		}
		if err := w.populateField(rec, field, value); err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
	}
	return nil
}

func (w *Wireform) populateField(rec *wire.Record, field *schema.Field, value interface{}) error {
	switch field.Type.Kind {
	case schema.KindVarint, schema.KindFixed:
		coerced, err := w.coerceScalar(field.Type.Scalar, value)
		if err != nil {
			return err
		}
		return rec.Set(field.Tag, coerced)

	case schema.KindMessage:
		data, ok := value.(map[string]interface{})
		if !ok {
			return errors.Errorf("expected object for message field, got %T", value)
		}
		sub, err := rec.Sub(field.Tag)
		if err != nil {
			return err
		}
		return w.Populate(sub, data)

	case schema.KindList:
		return w.populateList(rec, field, value)
	}
	return errors.Errorf("unknown field kind %q", field.Type.Kind)
}

func (w *Wireform) populateList(rec *wire.Record, field *schema.Field, value interface{}) error {
	elem := field.Type.Elem

	// Byte lists accept a string payload directly: raw text, or base64 with
	// a "base64:" prefix for binary data.
	if elem.Scalar == schema.ScalarByte {
		s, ok := value.(string)
		if !ok {
			return errors.Errorf("expected string for bytes field, got %T", value)
		}
		if enc, found := strings.CutPrefix(s, "base64:"); found {
			raw, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				return errors.Wrap(err, "bad base64 payload")
			}
			return rec.SetBytes(field.Tag, raw)
		}
		return rec.SetString(field.Tag, s)
	}

	slice, ok := value.([]interface{})
	if !ok {
		return errors.Errorf("expected array for repeated field, got %T", value)
	}
	for i, el := range slice {
		switch elem.Kind {
		case schema.KindVarint, schema.KindFixed:
			coerced, err := w.coerceScalar(elem.Scalar, el)
			if err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
			if err := rec.Append(field.Tag, coerced); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		case schema.KindMessage:
			data, ok := el.(map[string]interface{})
			if !ok {
				return errors.Errorf("element %d: expected object, got %T", i, el)
			}
			sub, err := rec.AppendMessage(field.Tag)
			if err != nil {
				return err
			}
			if err := w.Populate(sub, data); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
	}
	return nil
}

// coerceScalar converts a JSON-decoded value into the exact Go type the
// record setter expects for the scalar.
func (w *Wireform) coerceScalar(s schema.Scalar, value interface{}) (interface{}, error) {
	switch s {
	case schema.ScalarInt32, schema.ScalarSint32, schema.ScalarSfixed32:
		v, err := coerceToInt64(value)
		if err != nil {
			return nil, err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, errors.Errorf("value %d out of int32 range", v)
		}
		return int32(v), nil
	case schema.ScalarInt64, schema.ScalarSint64, schema.ScalarSfixed64:
		return coerceToInt64(value)
	case schema.ScalarUint32, schema.ScalarFixed32:
		v, err := coerceToUint64(value)
		if err != nil {
			return nil, err
		}
		if v > math.MaxUint32 {
			return nil, errors.Errorf("value %d out of uint32 range", v)
		}
		return uint32(v), nil
	case schema.ScalarUint64, schema.ScalarFixed64:
		return coerceToUint64(value)
	case schema.ScalarBool:
		v, ok := value.(bool)
		if !ok {
			return nil, errors.Errorf("expected bool, got %T", value)
		}
		return v, nil
	case schema.ScalarEnum:
		return w.coerceEnum(value)
	case schema.ScalarFloat:
		v, err := coerceToFloat64(value)
		if err != nil {
			return nil, err
		}
		return float32(v), nil
	case schema.ScalarDouble:
		return coerceToFloat64(value)
	}
	return nil, errors.Errorf("unsupported scalar type %q", s)
}

// coerceEnum accepts a numeric ordinal or a value name looked up across the
// registry's enum definitions.
func (w *Wireform) coerceEnum(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		if ord, ok := w.lookupEnumValue(s); ok {
			return ord, nil
		}
		return nil, errors.Errorf("unknown enum value name %q", s)
	}
	v, err := coerceToInt64(value)
	if err != nil {
		return nil, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return nil, errors.Errorf("enum ordinal %d out of int32 range", v)
	}
	return int32(v), nil
}

func (w *Wireform) lookupEnumValue(name string) (int32, bool) {
	for _, enumType := range w.registry.ListEnums() {
		e, err := w.registry.GetEnum(enumType)
		if err != nil {
			continue
		}
		if ord, ok := e.Values[name]; ok {
			return ord, true
		}
	}
	return 0, false
}

// Helpers to coerce JSON inputs to integers (accept float forms if integral).

func coerceToInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("non-integer numeric for integer field")
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("expected integer-like, got %T", v)
	}
}

func coerceToUint64(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case uint64:
		return t, nil
	case uint32:
		return uint64(t), nil
	case int:
		if t < 0 {
			return 0, fmt.Errorf("negative value for unsigned field")
		}
		return uint64(t), nil
	case float64:
		if t < 0 || t != math.Trunc(t) {
			return 0, fmt.Errorf("non-integer numeric for unsigned field")
		}
		return uint64(t), nil
	case string:
		return strconv.ParseUint(t, 10, 64)
	default:
		return 0, fmt.Errorf("expected unsigned-integer-like, got %T", v)
	}
}

func coerceToFloat64(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("expected numeric, got %T", v)
	}
}
