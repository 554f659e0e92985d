package profile

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the scalar types a parameter value may hold.
type Kind int

const (
	// KindInt marks an integer parameter value.
	KindInt Kind = iota
	// KindString marks a string parameter value.
	KindString
)

// Value is a single scalar parameter value, either an integer or a string.
// The concrete type is fixed when the document is parsed and never changes
// afterwards.
type Value struct {
	kind Kind
	num  int64
	str  string
}

// Int returns a Value holding an integer.
func Int(v int64) Value {
	return Value{kind: KindInt, num: v}
}

// String returns a Value holding a string.
func String(v string) Value {
	return Value{kind: KindString, str: v}
}

// Kind reports which scalar type the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// AsInt returns the integer payload. The ok result is false when the value
// holds a string.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// AsString returns the string payload. The ok result is false when the value
// holds an integer.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Text renders the value the way it appears in a configuration file,
// regardless of kind.
func (v Value) Text() string {
	if v.kind == KindInt {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// Equal reports whether two values hold the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// MarshalYAML encodes the value as a plain YAML scalar.
func (v Value) MarshalYAML() (any, error) {
	if v.kind == KindInt {
		return v.num, nil
	}
	return v.str, nil
}

// UnmarshalYAML decodes a YAML scalar into a tagged value. Mappings,
// sequences, and non-integer numbers are rejected.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := valueFromNode(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromNode(node *yaml.Node) (Value, error) {
	if node.Kind != yaml.ScalarNode {
		return Value{}, fmt.Errorf("line %d: parameter value must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!int":
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("line %d: invalid integer %q", node.Line, node.Value)
		}
		return Int(n), nil
	case "!!str":
		return String(node.Value), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported value %q (only integers and strings are allowed)", node.Line, node.Value)
	}
}
