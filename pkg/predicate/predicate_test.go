package predicate_test

import (
	"testing"

	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/predicate"
)

func TestAllPresent(t *testing.T) {
	complete := params.MustNew(
		params.Parameter{Key: "a", Value: params.String("1")},
		params.Parameter{Key: "b", Value: params.Bool(false)},
	)
	blank := params.MustNew(
		params.Parameter{Key: "a", Value: params.String("1")},
		params.Parameter{Key: "b", Value: params.String("  ")},
	)
	withNull := params.MustNew(
		params.Parameter{Key: "a", Value: params.Null()},
	)

	cases := []struct {
		name string
		pred predicate.Predicate
		set  params.Set
		want bool
	}{
		{name: "all keys complete", pred: predicate.AllPresent(), set: complete, want: true},
		{name: "all keys blank value", pred: predicate.AllPresent(), set: blank, want: false},
		{name: "null value", pred: predicate.AllPresent(), set: withNull, want: false},
		{name: "empty set", pred: predicate.AllPresent(), set: params.Set{}, want: false},
		{name: "listed key present", pred: predicate.AllPresent("a"), set: blank, want: true},
		{name: "listed key missing", pred: predicate.AllPresent("c"), set: complete, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pred.Enabled(tc.set); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestAll(t *testing.T) {
	set := params.MustNew(params.Parameter{Key: "a", Value: params.String("1")})

	if !predicate.All(predicate.Always(), nil, predicate.AllPresent()).Enabled(set) {
		t.Fatalf("expected enabled")
	}
	if predicate.All(predicate.Always(), predicate.Never()).Enabled(set) {
		t.Fatalf("expected disabled")
	}
}
