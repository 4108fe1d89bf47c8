package params

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a parameter value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	// KindComposite marks nested objects or arrays. They survive decoding so the
	// form can report them instead of silently dropping the parameter.
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar. Numbers keep their JSON literal so values
// round-trip without float formatting drift.
type Value struct {
	kind Kind
	raw  string
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, raw: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, raw: strconv.FormatBool(b)}
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Number returns a numeric value from a JSON number literal. Literals outside
// the float64 range are accepted and kept verbatim.
func Number(literal string) (Value, error) {
	literal = strings.TrimSpace(literal)
	var n json.Number
	if err := json.Unmarshal([]byte(literal), &n); err != nil || n.String() != literal {
		return Value{}, fmt.Errorf("params: invalid number literal %q", literal)
	}
	return Value{kind: KindNumber, raw: literal}, nil
}

// Composite wraps raw JSON for an object or array value.
func Composite(raw json.RawMessage) Value {
	return Value{kind: KindComposite, raw: string(raw)}
}

// FromAny converts a decoded Go value into a Value. Unsupported types are
// reported as errors.
func FromAny(v any) (Value, error) {
	switch typed := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case string:
		return String(typed), nil
	case bool:
		return Bool(typed), nil
	case json.Number:
		return Number(typed.String())
	case int:
		return Value{kind: KindNumber, raw: strconv.Itoa(typed)}, nil
	case int64:
		return Value{kind: KindNumber, raw: strconv.FormatInt(typed, 10)}, nil
	case float64:
		return Value{kind: KindNumber, raw: strconv.FormatFloat(typed, 'f', -1, 64)}, nil
	case map[string]any, []any:
		raw, err := json.Marshal(typed)
		if err != nil {
			return Value{}, fmt.Errorf("params: encode composite value: %w", err)
		}
		return Composite(raw), nil
	default:
		return Value{}, fmt.Errorf("params: unsupported value type %T", v)
	}
}

// Kind reports the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether the value can be shown in a single input.
func (v Value) IsScalar() bool {
	return v.kind != KindComposite
}

// IsEmpty reports whether the value is null or a blank string.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.raw) == ""
	default:
		return false
	}
}

// String returns the display text of the value. Null renders as an empty
// string.
func (v Value) String() string {
	if v.kind == KindNull {
		return ""
	}
	return v.raw
}

// Interface returns the Go representation used by template contexts and
// predicate evaluators.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.raw
	case KindBool:
		return v.raw == "true"
	case KindNumber:
		if i, err := strconv.ParseInt(v.raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.raw, 64); err == nil {
			return f
		}
		return json.Number(v.raw)
	case KindComposite:
		var out any
		if err := json.Unmarshal([]byte(v.raw), &out); err != nil {
			return v.raw
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value back to its JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.raw)
	case KindNumber, KindBool, KindComposite:
		return []byte(v.raw), nil
	default:
		return nil, fmt.Errorf("params: unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes a JSON value, keeping number literals intact.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := valueFromRaw(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func valueFromRaw(raw []byte) (Value, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Value{}, fmt.Errorf("params: empty value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return Value{}, fmt.Errorf("params: decode string: %w", err)
		}
		return String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal([]byte(trimmed), &b); err != nil {
			return Value{}, fmt.Errorf("params: decode bool: %w", err)
		}
		return Bool(b), nil
	case 'n':
		if trimmed != "null" {
			return Value{}, fmt.Errorf("params: invalid literal %q", trimmed)
		}
		return Null(), nil
	case '{', '[':
		if !json.Valid([]byte(trimmed)) {
			return Value{}, fmt.Errorf("params: invalid composite value")
		}
		return Composite(json.RawMessage(trimmed)), nil
	default:
		return Number(trimmed)
	}
}
