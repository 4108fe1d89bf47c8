// Package navigation computes destination URLs from a parameter set and hands
// them to the hosting runtime. Builders are pure; navigators perform the side
// effect.
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-paramform/pkg/params"
)

// DefaultBase is the destination used when no builder is configured.
const DefaultBase = "/runscript/view"

// ErrMissingPlaceholder is returned when a path template references a
// parameter the set does not contain.
var ErrMissingPlaceholder = errors.New("navigation: template placeholder has no parameter")

// TargetBuilder computes the destination for a parameter set. Implementations
// must be deterministic.
type TargetBuilder interface {
	Build(set params.Set) (string, error)
}

// BuilderFunc adapts a function into a TargetBuilder.
type BuilderFunc func(set params.Set) (string, error)

// Build calls the underlying function.
func (fn BuilderFunc) Build(set params.Set) (string, error) {
	return fn(set)
}

// Query appends every parameter as a query pair, in set order, to Base.
// Existing query pairs on Base are kept ahead of the parameters.
type Query struct {
	Base string
	// SkipEmpty leaves out parameters whose value is null or blank.
	SkipEmpty bool
}

// Build implements TargetBuilder.
func (q Query) Build(set params.Set) (string, error) {
	base := strings.TrimSpace(q.Base)
	if base == "" {
		base = DefaultBase
	}
	return appendQuery(base, set, nil, q.SkipEmpty)
}

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// PathTemplate substitutes {name} placeholders with path-escaped parameter
// values; parameters not used by the template are appended as query pairs.
type PathTemplate struct {
	Pattern string
}

// Build implements TargetBuilder.
func (p PathTemplate) Build(set params.Set) (string, error) {
	pattern := strings.TrimSpace(p.Pattern)
	if pattern == "" {
		return "", errors.New("navigation: path template is required")
	}

	used := make(map[string]struct{})
	var missing []string
	path := placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		name := strings.TrimSpace(match[1 : len(match)-1])
		value, ok := set.Get(name)
		if !ok || !value.IsScalar() {
			missing = append(missing, name)
			return match
		}
		used[name] = struct{}{}
		return url.PathEscape(value.String())
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingPlaceholder, strings.Join(missing, ", "))
	}

	return appendQuery(path, set, used, false)
}

func appendQuery(base string, set params.Set, skip map[string]struct{}, skipEmpty bool) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("navigation: parse base %q: %w", base, err)
	}

	var b strings.Builder
	b.WriteString(parsed.RawQuery)

	for _, entry := range set.Parameters() {
		if _, ok := skip[entry.Key]; ok {
			continue
		}
		if skipEmpty && entry.Value.IsEmpty() {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(entry.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(entry.Value.String()))
	}

	// url.Values.Encode sorts keys; the query is built by hand to keep set order.
	parsed.RawQuery = b.String()
	return parsed.String(), nil
}
