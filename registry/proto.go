package registry

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/wireform/wireform/schema"
)

// parsedFile is one .proto file after parsing, before descriptor building.
type parsedFile struct {
	path  string
	pkg   string
	proto *protoparserparser.Proto
}

// LoadSchema parses the .proto file at protoPath, or every .proto file under
// it if it is a directory, and registers a descriptor table for each message
// type found. Proto constructs the engine has no encoding for (maps, oneofs,
// groups, repeated string/bytes) are rejected with an error.
func (r *Registry) LoadSchema(protoPath string) error {
	info, err := os.Stat(protoPath)
	if err != nil {
		return errors.Wrap(err, "path does not exist")
	}

	var files []parsedFile
	addFile := func(path string) error {
		pf, err := parseProtoFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to load proto file %s", path)
		}
		files = append(files, pf)
		return nil
	}

	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return errors.Errorf("file %s is not a .proto file", protoPath)
		}
		if err := addFile(protoPath); err != nil {
			return err
		}
	} else {
		err = filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".proto") {
				return nil
			}
			return addFile(path)
		})
		if err != nil {
			return errors.Wrap(err, "failed to walk directory")
		}
	}

	// Pass 1: register all message and enum names so field types can refer
	// to types from any file, in any order.
	for _, pf := range files {
		r.registerNames(pf.pkg, "", pf.proto.ProtoBody)
	}

	// Pass 2: build and validate each descriptor table.
	for _, pf := range files {
		if err := r.buildMessages(pf.pkg, "", pf.proto.ProtoBody); err != nil {
			return errors.Wrapf(err, "file %s", pf.path)
		}
	}
	for _, msg := range r.messages {
		if err := msg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func parseProtoFile(path string) (parsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{}, errors.Wrap(err, "failed to read file")
	}
	parsed, err := protoparser.Parse(bytes.NewBuffer(content))
	if err != nil {
		return parsedFile{}, err
	}
	pf := parsedFile{path: path, proto: parsed}
	for _, body := range parsed.ProtoBody {
		if pkg, ok := body.(*protoparserparser.Package); ok {
			pf.pkg = pkg.Name
		}
	}
	return pf, nil
}

func qualify(pkg, scope, name string) string {
	parts := make([]string, 0, 3)
	if pkg != "" {
		parts = append(parts, pkg)
	}
	if scope != "" {
		parts = append(parts, scope)
	}
	parts = append(parts, name)
	return strings.Join(parts, ".")
}

// registerNames registers message and enum names, including nested ones
// under dotted scopes.
func (r *Registry) registerNames(pkg, scope string, body []protoparserparser.Visitee) {
	for _, item := range body {
		switch b := item.(type) {
		case *protoparserparser.Message:
			fullName := qualify(pkg, scope, b.MessageName)
			r.messages[fullName] = &schema.Message{Name: fullName}
			inner := scope
			if inner == "" {
				inner = b.MessageName
			} else {
				inner = inner + "." + b.MessageName
			}
			r.registerNames(pkg, inner, b.MessageBody)
		case *protoparserparser.Enum:
			fullName := qualify(pkg, scope, b.EnumName)
			e := &Enum{Name: fullName, Values: make(map[string]int32)}
			for _, ev := range b.EnumBody {
				if field, ok := ev.(*protoparserparser.EnumField); ok {
					if n, err := strconv.ParseInt(field.Number, 10, 32); err == nil {
						e.Values[field.Ident] = int32(n)
					}
				}
			}
			r.enums[fullName] = e
		}
	}
}

// buildMessages fills the descriptor tables registered by pass 1.
func (r *Registry) buildMessages(pkg, scope string, body []protoparserparser.Visitee) error {
	for _, item := range body {
		msg, ok := item.(*protoparserparser.Message)
		if !ok {
			continue
		}
		fullName := qualify(pkg, scope, msg.MessageName)
		target := r.messages[fullName]

		inner := scope
		if inner == "" {
			inner = msg.MessageName
		} else {
			inner = inner + "." + msg.MessageName
		}

		for _, member := range msg.MessageBody {
			switch f := member.(type) {
			case *protoparserparser.Field:
				field, err := r.buildField(pkg, inner, f)
				if err != nil {
					return errors.Wrapf(err, "message %s", fullName)
				}
				target.Fields = append(target.Fields, field)
			case *protoparserparser.MapField:
				return errors.Errorf("message %s, field %s: map fields have no encoding", fullName, f.MapName)
			case *protoparserparser.Oneof:
				return errors.Errorf("message %s: oneof groups have no encoding", fullName)
			case *protoparserparser.GroupField:
				return errors.Errorf("message %s: group fields have no encoding", fullName)
			}
		}
		if err := r.buildMessages(pkg, inner, msg.MessageBody); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) buildField(pkg, scope string, f *protoparserparser.Field) (*schema.Field, error) {
	tag, err := strconv.ParseUint(f.FieldNumber, 10, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s: bad field number %q", f.FieldName, f.FieldNumber)
	}

	base, err := r.resolveType(pkg, scope, f.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", f.FieldName)
	}

	ft := base
	if f.IsRepeated {
		if base.Kind == schema.KindList {
			return nil, errors.Errorf("field %s: repeated %s has no encoding, lists do not nest", f.FieldName, f.Type)
		}
		elem := base
		ft = schema.FieldType{Kind: schema.KindList, Elem: &elem}
	}

	return &schema.Field{
		Name: f.FieldName,
		Tag:  uint32(tag),
		Type: ft,
	}, nil
}

// resolveType maps a proto type name onto the field model: varint scalars,
// fixed-width scalars, byte lists for string/bytes, and message references.
func (r *Registry) resolveType(pkg, scope, typeName string) (schema.FieldType, error) {
	switch typeName {
	case "int32":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarInt32}, nil
	case "int64":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarInt64}, nil
	case "uint32":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarUint32}, nil
	case "uint64":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarUint64}, nil
	case "sint32":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarSint32}, nil
	case "sint64":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarSint64}, nil
	case "bool":
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarBool}, nil
	case "fixed32":
		return schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarFixed32}, nil
	case "sfixed32":
		return schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarSfixed32}, nil
	case "float":
		return schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarFloat}, nil
	case "fixed64":
		return schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarFixed64}, nil
	case "sfixed64":
		return schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarSfixed64}, nil
	case "double":
		return schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarDouble}, nil
	case "string", "bytes":
		return schema.FieldType{
			Kind: schema.KindList,
			Elem: &schema.FieldType{Kind: schema.KindFixed, Scalar: schema.ScalarByte},
		}, nil
	}

	// Named type: enum or message, resolved from the innermost scope out,
	// the same search order protoc uses.
	full, ok := r.resolveName(pkg, scope, typeName)
	if !ok {
		return schema.FieldType{}, errors.Errorf("unable to resolve type name: %s", typeName)
	}
	if _, isEnum := r.enums[full]; isEnum {
		return schema.FieldType{Kind: schema.KindVarint, Scalar: schema.ScalarEnum}, nil
	}
	return schema.FieldType{Kind: schema.KindMessage, Message: full, Ref: r.messages[full]}, nil
}

func (r *Registry) resolveName(pkg, scope, typeName string) (string, bool) {
	known := func(name string) bool {
		if _, ok := r.messages[name]; ok {
			return true
		}
		_, ok := r.enums[name]
		return ok
	}

	if strings.HasPrefix(typeName, ".") {
		name := strings.TrimPrefix(typeName, ".")
		return name, known(name)
	}

	// Walk the scope chain outwards: pkg.scope.T, pkg.parent.T, ..., pkg.T, T.
	prefix := qualify(pkg, scope, "")
	prefix = strings.TrimSuffix(prefix, ".")
	parts := strings.Split(prefix, ".")
	for len(parts) > 0 && parts[0] != "" {
		candidate := strings.Join(parts, ".") + "." + typeName
		if known(candidate) {
			return candidate, true
		}
		parts = parts[:len(parts)-1]
	}
	if known(typeName) {
		return typeName, true
	}
	return "", false
}
