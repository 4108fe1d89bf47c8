package params_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/params"
)

func TestDecode_PreservesPayloadOrder(t *testing.T) {
	set, err := params.Decode([]byte(`{"zeta": "1", "alpha": 2, "mid": true, "none": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid", "none"}, set.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	alpha, ok := set.Get("alpha")
	if !ok {
		t.Fatalf("expected alpha present")
	}
	if alpha.Kind() != params.KindNumber || alpha.String() != "2" {
		t.Fatalf("unexpected alpha value: kind=%s text=%q", alpha.Kind(), alpha.String())
	}

	none, _ := set.Get("none")
	if !none.IsEmpty() || none.String() != "" {
		t.Fatalf("expected null to render empty, got %q", none.String())
	}
}

func TestDecode_RepeatedKeyKeepsFirstPosition(t *testing.T) {
	set, err := params.Decode([]byte(`{"a": "1", "b": "2", "a": "3"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, set.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	a, _ := set.Get("a")
	if a.String() != "3" {
		t.Fatalf("expected last value to win, got %q", a.String())
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "  ", want: params.ErrInvalidJSON},
		{name: "malformed", input: "{not json", want: params.ErrInvalidJSON},
		{name: "array", input: `["a"]`, want: params.ErrNotObject},
		{name: "string", input: `"a"`, want: params.ErrNotObject},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := params.Decode([]byte(tc.input))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecode_KeepsCompositeValues(t *testing.T) {
	set, err := params.Decode([]byte(`{"a": "1", "nested": {"x": 1}, "list": [1, 2]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"nested", "list"}, set.Composites()); diff != "" {
		t.Fatalf("composites mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_WithReturnsCopy(t *testing.T) {
	original := params.MustNew(
		params.Parameter{Key: "a", Value: params.String("1")},
		params.Parameter{Key: "b", Value: params.String("2")},
	)

	updated, err := original.With("a", params.String("changed"))
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	appended, err := updated.With("c", params.Bool(true))
	if err != nil {
		t.Fatalf("with append: %v", err)
	}

	if v, _ := original.Get("a"); v.String() != "1" {
		t.Fatalf("original mutated: %q", v.String())
	}
	if v, _ := updated.Get("a"); v.String() != "changed" {
		t.Fatalf("expected updated value, got %q", v.String())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, appended.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_NewRejectsDuplicates(t *testing.T) {
	_, err := params.New(
		params.Parameter{Key: "a", Value: params.String("1")},
		params.Parameter{Key: "a", Value: params.String("2")},
	)
	if !errors.Is(err, params.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSet_MarshalJSONKeepsOrder(t *testing.T) {
	set, err := params.Decode([]byte(`{"b": 1.50, "a": "x", "c": false}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"b":1.50,"a":"x","c":false}` {
		t.Fatalf("unexpected encoding: %s", out)
	}
}

func TestSet_ValuesConvertsKinds(t *testing.T) {
	set, err := params.Decode([]byte(`{"n": 3, "f": 1.5, "b": true, "s": "x", "z": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"n": int64(3),
		"f": 1.5,
		"b": true,
		"s": "x",
		"z": nil,
	}
	if diff := cmp.Diff(want, set.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_KeepsKeysVerbatim(t *testing.T) {
	cases := []struct {
		name  string
		input string
		keys  []string
	}{
		{name: "empty key", input: `{"": "x"}`, keys: []string{""}},
		{name: "padded and plain", input: `{" a": "1", "a": "2"}`, keys: []string{" a", "a"}},
		{name: "padded", input: `{" padded ": "1"}`, keys: []string{" padded "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := params.Decode([]byte(tc.input))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tc.keys, set.Keys()); diff != "" {
				t.Fatalf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_NumberOutsideFloatRange(t *testing.T) {
	set, err := params.Decode([]byte(`{"big": 1e999}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	big, _ := set.Get("big")
	if big.Kind() != params.KindNumber || big.String() != "1e999" {
		t.Fatalf("unexpected value: kind=%s text=%q", big.Kind(), big.String())
	}
	if got := big.Interface(); got != json.Number("1e999") {
		t.Fatalf("expected literal fallback, got %#v", got)
	}
	out, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"big":1e999}` {
		t.Fatalf("unexpected encoding: %s", out)
	}
}

func TestNumber_RejectsNonNumbers(t *testing.T) {
	for _, literal := range []string{`"1"`, "true", "1.", "0x1F", ""} {
		if _, err := params.Number(literal); err == nil {
			t.Fatalf("%q: expected error", literal)
		}
	}
}

func TestFromStrings_TrimsKeys(t *testing.T) {
	set, err := params.FromStrings(" a ", "1")
	if err != nil {
		t.Fatalf("from strings: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, set.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if _, err := params.FromStrings(" ", "1"); err == nil {
		t.Fatalf("expected blank key error")
	}
}
