package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidJSON reports malformed input.
	ErrInvalidJSON = errors.New("params: invalid JSON")
	// ErrNotObject reports valid JSON whose top level is not an object.
	ErrNotObject = errors.New("params: payload is not a JSON object")
)

// Decode parses a flat JSON object into a Set, keeping the key order of the
// payload. A repeated key keeps its first position and takes the last value.
// Nested objects and arrays are kept as KindComposite values.
func Decode(data []byte) (Set, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Set{}, fmt.Errorf("%w: empty payload", ErrInvalidJSON)
	}
	if !json.Valid(trimmed) {
		return Set{}, ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Set{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Set{}, ErrNotObject
	}

	var entries []Parameter
	positions := make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Set{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Set{}, fmt.Errorf("%w: unexpected token %v", ErrInvalidJSON, keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Set{}, fmt.Errorf("%w: value for %q: %v", ErrInvalidJSON, key, err)
		}
		value, err := valueFromRaw(raw)
		if err != nil {
			return Set{}, fmt.Errorf("%w: value for %q: %v", ErrInvalidJSON, key, err)
		}

		if idx, exists := positions[key]; exists {
			entries[idx].Value = value
			continue
		}
		positions[key] = len(entries)
		entries = append(entries, Parameter{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return Set{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return New(entries...)
}

// Composites returns the keys whose values are nested objects or arrays.
func (s Set) Composites() []string {
	var keys []string
	for _, entry := range s.entries {
		if !entry.Value.IsScalar() {
			keys = append(keys, entry.Key)
		}
	}
	return keys
}
