// Package predicate decides whether the form action may be activated. The
// surrounding application supplies the rule; AllPresent is the default used
// when none is configured.
package predicate

import (
	"strings"

	"github.com/goliatone/go-paramform/pkg/params"
)

// Predicate reports whether the action is enabled for a parameter set.
type Predicate interface {
	Enabled(set params.Set) bool
}

// Func adapts a function into a Predicate.
type Func func(set params.Set) bool

// Enabled calls the underlying function.
func (fn Func) Enabled(set params.Set) bool {
	return fn(set)
}

// Always enables the action regardless of the parameters.
func Always() Predicate {
	return Func(func(params.Set) bool { return true })
}

// Never keeps the action disabled.
func Never() Predicate {
	return Func(func(params.Set) bool { return false })
}

// AllPresent requires every listed key to exist with a non-empty value. With
// no keys it requires every parameter in the set to be non-empty, and an empty
// set keeps the action disabled.
func AllPresent(keys ...string) Predicate {
	required := make([]string, 0, len(keys))
	for _, key := range keys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			required = append(required, trimmed)
		}
	}

	return Func(func(set params.Set) bool {
		check := required
		if len(check) == 0 {
			if set.Len() == 0 {
				return false
			}
			check = set.Keys()
		}
		for _, key := range check {
			value, ok := set.Get(key)
			if !ok || value.IsEmpty() {
				return false
			}
		}
		return true
	})
}

// All combines predicates with logical AND. Nil entries are skipped.
func All(predicates ...Predicate) Predicate {
	return Func(func(set params.Set) bool {
		for _, p := range predicates {
			if p == nil {
				continue
			}
			if !p.Enabled(set) {
				return false
			}
		}
		return true
	})
}
