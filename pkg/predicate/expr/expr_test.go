package expr

import (
	"testing"

	"github.com/goliatone/go-paramform/pkg/params"
)

func TestRule_Eval(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"script":  "daily",
		"blank":   "",
		"retries": int64(2),
		"ratio":   0.5,
		"dry_run": false,
		"count":   "3",
		"nothing": nil,
	}

	cases := []struct {
		rule string
		want bool
	}{
		{rule: "", want: true},
		{rule: "script", want: true},
		{rule: "blank", want: false},
		{rule: "missing", want: false},
		{rule: "!dry_run", want: true},
		{rule: "not dry_run and script", want: true},
		{rule: `script == "daily"`, want: true},
		{rule: `script != 'daily'`, want: false},
		{rule: "script == daily", want: true},
		{rule: "retries >= 2", want: true},
		{rule: "retries > 2", want: false},
		{rule: "ratio < 1", want: true},
		{rule: "count == 3", want: true},
		{rule: "dry_run == false", want: true},
		{rule: "nothing == null", want: true},
		{rule: "script != null", want: true},
		{rule: `blank != "" || (retries <= 2 && script)`, want: true},
		{rule: `blank != "" || retries == 5`, want: false},
	}

	for _, tc := range cases {
		rule, err := Compile(tc.rule)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.rule, err)
		}
		got, err := rule.Eval(values)
		if err != nil {
			t.Fatalf("eval %q: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("rule %q: want %v, got %v", tc.rule, tc.want, got)
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		"a = 1",
		"a & b",
		"a | b",
		`a == "open`,
		"(a && b",
		"a ==",
		"== 1",
		"a < true",
		"a b",
	} {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("expected compile error for %q", rule)
		}
	}
}

func TestPredicate_UsesParameterSet(t *testing.T) {
	t.Parallel()

	pred, err := Predicate(`script != "" && retries > 0`, nil)
	if err != nil {
		t.Fatalf("predicate: %v", err)
	}

	enabled, err := params.Decode([]byte(`{"script": "sync", "retries": 1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	disabled, err := params.Decode([]byte(`{"script": "", "retries": 1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !pred.Enabled(enabled) {
		t.Fatalf("expected enabled")
	}
	if pred.Enabled(disabled) {
		t.Fatalf("expected disabled")
	}
}
