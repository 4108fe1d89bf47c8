package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateKey is returned when New receives the same key twice.
var ErrDuplicateKey = errors.New("params: duplicate key")

// Parameter is a single key/value entry.
type Parameter struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Set is an ordered, immutable mapping from parameter name to value. The zero
// value is an empty set.
type Set struct {
	entries []Parameter
	index   map[string]int
}

// New builds a Set from parameters in the given order. Keys are stored
// exactly as given, so any JSON object key (including "" or keys with
// surrounding spaces) is valid. Keys must be unique.
func New(entries ...Parameter) (Set, error) {
	set := Set{
		entries: make([]Parameter, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		key := entry.Key
		if _, exists := set.index[key]; exists {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		set.index[key] = len(set.entries)
		set.entries = append(set.entries, Parameter{Key: key, Value: entry.Value})
	}
	return set, nil
}

// MustNew mirrors New but panics on error. Intended for fixtures.
func MustNew(entries ...Parameter) Set {
	set, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return set
}

// FromStrings builds a Set of string values from alternating key/value pairs.
// Keys are trimmed and must not be blank.
func FromStrings(pairs ...string) (Set, error) {
	if len(pairs)%2 != 0 {
		return Set{}, errors.New("params: odd number of key/value arguments")
	}
	entries := make([]Parameter, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key := strings.TrimSpace(pairs[i])
		if key == "" {
			return Set{}, errors.New("params: key is required")
		}
		entries = append(entries, Parameter{Key: key, Value: String(pairs[i+1])})
	}
	return New(entries...)
}

// Len returns the number of parameters.
func (s Set) Len() int {
	return len(s.entries)
}

// Keys returns the parameter names in insertion order.
func (s Set) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, entry := range s.entries {
		keys[i] = entry.Key
	}
	return keys
}

// Get returns the value stored under key.
func (s Set) Get(key string) (Value, bool) {
	idx, ok := s.index[key]
	if !ok {
		return Value{}, false
	}
	return s.entries[idx].Value, true
}

// Has reports whether key is present.
func (s Set) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Parameters returns a copy of the ordered entries.
func (s Set) Parameters() []Parameter {
	out := make([]Parameter, len(s.entries))
	copy(out, s.entries)
	return out
}

// Each calls fn for every parameter in order until fn returns false.
func (s Set) Each(fn func(Parameter) bool) {
	for _, entry := range s.entries {
		if !fn(entry) {
			return
		}
	}
}

// Values returns the set as a plain map for template and evaluator contexts.
func (s Set) Values() map[string]any {
	out := make(map[string]any, len(s.entries))
	for _, entry := range s.entries {
		out[entry.Key] = entry.Value.Interface()
	}
	return out
}

// With returns a copy of the set with key set to value. Existing keys keep
// their position; new keys are appended.
func (s Set) With(key string, value Value) (Set, error) {
	entries := s.Parameters()
	if idx, ok := s.index[key]; ok {
		entries[idx].Value = value
	} else {
		entries = append(entries, Parameter{Key: key, Value: value})
	}
	return New(entries...)
}

// MarshalJSON encodes the set as a JSON object preserving key order.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := entry.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("params: encode %q: %w", entry.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object preserving key order.
func (s *Set) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
