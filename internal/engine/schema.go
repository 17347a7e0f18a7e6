package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/fieldgate/internal/ir"
)

// FieldType is a normalized field type tag.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// RawField is a declared field with its unnormalized type spec, in
// declaration order.
type RawField struct {
	Name string
	Spec ir.Value
}

// FieldSpec is a declared field reduced to its normalized type tag.
type FieldSpec struct {
	Name string
	Type FieldType
}

// ComputedSpec is a computed field: a name and the template that
// derives its value.
type ComputedSpec struct {
	Name     string
	Template string
}

// Schema describes the declared shape of a record: a version, typed
// fields, and optional computed fields. Fields and computed entries
// preserve the declaration order of the request document - computed
// fields resolve strictly in that order, and type errors report in
// field order.
type Schema struct {
	Version   ir.Value // nil when absent
	Fields    []RawField
	HasFields bool
	Computed  []ComputedSpec
}

// Admit checks the request-level schema invariant: version and fields
// must both be declared. Absence is a protocol error, not a validation
// result.
func (s *Schema) Admit() error {
	if s == nil || s.Version == nil || !s.HasFields {
		return &RequestError{Message: "invalid schema: version and fields required"}
	}
	return nil
}

// NormalizedFields reduces every declared field's type spec to a bare
// tag. A spec is either a bare tag string or an object {type: tag};
// any unrecognized shape defaults to "string".
func (s *Schema) NormalizedFields() []FieldSpec {
	out := make([]FieldSpec, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = FieldSpec{Name: f.Name, Type: normalizeSpec(f.Spec)}
	}
	return out
}

func normalizeSpec(spec ir.Value) FieldType {
	switch v := spec.(type) {
	case ir.String:
		if t, ok := asFieldType(string(v)); ok {
			return t
		}
	case ir.Object:
		if tag, ok := v["type"].(ir.String); ok {
			if t, ok := asFieldType(string(tag)); ok {
				return t
			}
		}
	}
	return TypeString
}

func asFieldType(s string) (FieldType, bool) {
	switch FieldType(s) {
	case TypeString, TypeNumber, TypeBoolean:
		return FieldType(s), true
	}
	return "", false
}

// UnmarshalJSON decodes a schema while preserving the declaration
// order of fields and computed entries, which encoding/json's map
// decoding would lose.
func (s *Schema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return fmt.Errorf("schema: %w", err)
		}

		switch key {
		case "version":
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			v, err := ir.FromJSON(raw)
			if err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			s.Version = v

		case "fields":
			fields, err := readOrderedObject(dec)
			if err != nil {
				return fmt.Errorf("schema fields: %w", err)
			}
			s.HasFields = true
			s.Fields = make([]RawField, len(fields))
			for i, kv := range fields {
				s.Fields[i] = RawField{Name: kv.key, Spec: kv.val}
			}

		case "computed":
			computed, err := readOrderedObject(dec)
			if err != nil {
				return fmt.Errorf("schema computed: %w", err)
			}
			s.Computed = make([]ComputedSpec, len(computed))
			for i, kv := range computed {
				tpl, ok := kv.val.(ir.String)
				if !ok {
					return fmt.Errorf("schema computed %q: template must be a string, got %s", kv.key, ir.Kind(kv.val))
				}
				s.Computed[i] = ComputedSpec{Name: kv.key, Template: string(tpl)}
			}

		default:
			// Unknown top-level keys are ignored.
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("schema %q: %w", key, err)
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

type orderedKV struct {
	key string
	val ir.Value
}

// readOrderedObject consumes a JSON object token-by-token, keeping key
// order. A JSON null yields an empty list, matching the treatment of an
// absent map.
func readOrderedObject(dec *json.Decoder) ([]orderedKV, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var out []orderedKV
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		v, err := ir.FromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out = append(out, orderedKV{key: key, val: v})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return out, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
