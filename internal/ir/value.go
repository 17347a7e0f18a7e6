package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a sealed interface over the closed set of value types the
// validation pipeline operates on. Only Null, String, Int, Float, Bool,
// Array, and Object implement it. Keeping the set closed means every
// type switch over Value can be exhaustive.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string value.
type String string

func (String) value() {}

// Int represents an integer value. Always int64.
type Int int64

func (Int) value() {}

// Float represents a floating-point value.
// Ints and Floats are kept distinct so that "42" coerces to an integer
// and an integer record value round-trips without picking up a
// fractional representation.
type Float float64

func (Float) value() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Array represents an ordered sequence of Values.
type Array []Value

func (Array) value() {}

// Object represents a map of string keys to Values.
// Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// Clone returns a shallow copy of the object. The pipeline clones the
// request data into a working record before mutating anything.
func (obj Object) Clone() Object {
	out := make(Object, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	return out
}

// SortedKeys returns the object's keys in lexicographic order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Kind returns a human-readable name for the value's kind, used in
// type-mismatch messages and evaluator errors.
func Kind(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case String:
		return "string"
	case Int, Float:
		return "number"
	case Bool:
		return "boolean"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Truthy reports whether a value counts as true in a rule condition.
// The falsy set is explicit: false, numeric zero, empty string, empty
// array, empty object, and null. Everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Float:
		return val != 0
	case String:
		return val != ""
	case Array:
		return len(val) > 0
	case Object:
		return len(val) > 0
	default:
		return true
	}
}

// FromJSON decodes a JSON document into a Value, preserving the
// int/float distinction via json.Number.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromGo(raw)
}

// FromGo converts a decoded Go value (as produced by encoding/json with
// UseNumber) into a Value.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case json.Number:
		// Integers stay integers; anything with a point or exponent
		// becomes a Float.
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			if n, err := val.Int64(); err == nil {
				return Int(n), nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, err)
		}
		return Float(f), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			conv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = conv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			conv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = conv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// UnmarshalJSON implements json.Unmarshaler for Object.
func (obj *Object) UnmarshalJSON(data []byte) error {
	v, err := FromJSON(data)
	if err != nil {
		return err
	}
	o, ok := v.(Object)
	if !ok {
		return fmt.Errorf("expected JSON object, got %s", Kind(v))
	}
	*obj = o
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for Array.
func (arr *Array) UnmarshalJSON(data []byte) error {
	v, err := FromJSON(data)
	if err != nil {
		return err
	}
	a, ok := v.(Array)
	if !ok {
		return fmt.Errorf("expected JSON array, got %s", Kind(v))
	}
	*arr = a
	return nil
}

// MarshalJSON implements json.Marshaler for Object with sorted keys so
// that serialized records are deterministic.
func (obj Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := Marshal(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Array.
func (arr Array) MarshalJSON() ([]byte, error) {
	return Marshal(arr)
}

// Marshal serializes a Value to JSON bytes.
func Marshal(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return []byte(strconv.FormatInt(int64(val), 10)), nil
	case Float:
		return json.Marshal(float64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			elemBytes, err := Marshal(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(elemBytes)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Object:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// ToString renders a value for template substitution. Strings pass
// through unquoted; compound values render as JSON.
func ToString(v Value) (string, error) {
	switch val := v.(type) {
	case nil, Null:
		return "", fmt.Errorf("cannot render null as text")
	case String:
		return string(val), nil
	case Int:
		return strconv.FormatInt(int64(val), 10), nil
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), nil
	case Bool:
		return strconv.FormatBool(bool(val)), nil
	default:
		b, err := Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
