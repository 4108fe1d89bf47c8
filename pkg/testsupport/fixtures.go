// Package testsupport holds fixture and golden-file helpers shared by package
// tests. Goldens are rewritten when UPDATE_GOLDENS is set.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/params"
)

// MustLoadParams reads a JSON fixture into an ordered parameter set.
func MustLoadParams(t *testing.T, path string) params.Set {
	t.Helper()

	set, err := LoadParams(path)
	if err != nil {
		t.Fatalf("load params: %v", err)
	}
	return set
}

// LoadParams reads a JSON fixture without requiring testing.T so callers can
// use it from setup helpers.
func LoadParams(path string) (params.Set, error) {
	if path == "" {
		return params.Set{}, errors.New("testsupport: params path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return params.Set{}, fmt.Errorf("testsupport: read params: %w", err)
	}
	set, err := params.Decode(data)
	if err != nil {
		return params.Set{}, fmt.Errorf("testsupport: decode params: %w", err)
	}
	return set, nil
}

// Page returns a minimal HTML document whose mount element carries payload
// in its data-bootstrap attribute. An empty id omits the element entirely.
func Page(id, payload string) string {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html><html><head><title>fixture</title></head><body>")
	if id != "" {
		fmt.Fprintf(&b, `<div id="%s" data-bootstrap="%s"></div>`, html.EscapeString(id), html.EscapeString(payload))
	}
	b.WriteString("</body></html>")
	return b.String()
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// string result and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
