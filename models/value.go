// Package models defines the argument and command model shared by every stage of the engine.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ValueType is the declared type of an argument. The zero value is TypeString.
type ValueType int

const (
	TypeString ValueType = iota
	TypeBool
	TypeNumber
)

// String implements fmt.Stringer.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	default:
		return "string"
	}
}

// ParseValueType maps a manifest type name to a ValueType. An empty name is a string.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string":
		return TypeString, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "number", "int", "float":
		return TypeNumber, nil
	}
	return TypeString, fmt.Errorf("unknown value type %q", s)
}

// MarshalText lets value types appear by name in JSON and YAML listings.
func (t ValueType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Value holds one of bool, float64, string, or a homogeneous []bool, []float64, []string.
type Value = any

// Args maps argument names to their values.
type Args map[string]Value

// Clone returns a copy of a with sequence values copied too.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue copies sequence values so callers cannot mutate a shared backing array.
func CloneValue(v Value) Value {
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...)
	case []bool:
		return append([]bool(nil), s...)
	case []float64:
		return append([]float64(nil), s...)
	case []any:
		return append([]any(nil), s...)
	}
	return v
}

// IsSequence reports whether v is a slice value.
func IsSequence(v Value) bool {
	switch v.(type) {
	case []string, []bool, []float64, []any:
		return true
	}
	return false
}

// Elements returns the elements of a sequence, or v itself as a single element.
func Elements(v Value) []any {
	switch s := v.(type) {
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	case []bool:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	case []float64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out
	case []any:
		return s
	}
	return []any{v}
}

// Coerce converts v to the scalar Go type of t.
//
// Strings coming from the command line are parsed strictly: booleans must be
// "true" or "false". Non-string values, which only arrive from configuration
// files, go through cast.
func Coerce(v any, t ValueType) (Value, error) {
	if s, ok := v.(string); ok {
		switch t {
		case TypeBool:
			switch s {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, fmt.Errorf("%q is not a boolean", s)
		case TypeNumber:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", s)
			}
			return f, nil
		default:
			return s, nil
		}
	}
	switch t {
	case TypeBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, err
		}
		return b, nil
	case TypeNumber:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// CoerceSequence converts every element of v and returns a typed slice for t.
func CoerceSequence(v any, t ValueType) (Value, error) {
	elems := Elements(v)
	switch t {
	case TypeBool:
		out := make([]bool, 0, len(elems))
		for _, e := range elems {
			c, err := Coerce(e, t)
			if err != nil {
				return nil, err
			}
			out = append(out, c.(bool))
		}
		return out, nil
	case TypeNumber:
		out := make([]float64, 0, len(elems))
		for _, e := range elems {
			c, err := Coerce(e, t)
			if err != nil {
				return nil, err
			}
			out = append(out, c.(float64))
		}
		return out, nil
	default:
		out := make([]string, 0, len(elems))
		for _, e := range elems {
			c, err := Coerce(e, t)
			if err != nil {
				return nil, err
			}
			out = append(out, c.(string))
		}
		return out, nil
	}
}

// MatchesType reports whether a scalar value already has the Go type of t.
func MatchesType(v Value, t ValueType) bool {
	switch v.(type) {
	case bool:
		return t == TypeBool
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return t == TypeNumber
	case string:
		return t == TypeString
	}
	return false
}

// Contains reports whether v is one of valid. Both sides are compared after
// coercion to t so 1 and "1" match a number argument.
func Contains(valid []Value, v Value, t ValueType) bool {
	want, err := Coerce(v, t)
	if err != nil {
		return false
	}
	for _, candidate := range valid {
		got, err := Coerce(candidate, t)
		if err != nil {
			continue
		}
		if got == want {
			return true
		}
	}
	return false
}

// Format renders a value for messages and environment variables.
func Format(v Value) string {
	if IsSequence(v) {
		elems := Elements(v)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = Format(e)
		}
		return strings.Join(parts, ",")
	}
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
