package form

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/predicate"
)

const (
	// DefaultTitle is the panel heading.
	DefaultTitle = "Run Script"
	// DefaultActionLabel is the action control text.
	DefaultActionLabel = "Run Script"
)

// Option configures a Component.
type Option func(*Component)

// WithLabeler sets the key → display text lookup.
func WithLabeler(fn func(string) string) Option {
	return func(c *Component) {
		if fn != nil {
			c.labeler = fn
		}
	}
}

// WithPredicate sets the rule enabling the action control.
func WithPredicate(p predicate.Predicate) Option {
	return func(c *Component) {
		if p != nil {
			c.predicate = p
		}
	}
}

// WithTargetBuilder sets how the destination URL is computed.
func WithTargetBuilder(b navigation.TargetBuilder) Option {
	return func(c *Component) {
		if b != nil {
			c.builder = b
		}
	}
}

// WithNavigator sets the navigation primitive invoked on activation.
func WithNavigator(n navigation.Navigator) Option {
	return func(c *Component) {
		if n != nil {
			c.navigator = n
		}
	}
}

// WithTitle overrides the panel heading.
func WithTitle(title string) Option {
	return func(c *Component) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			c.title = trimmed
		}
	}
}

// WithActionLabel overrides the action control text.
func WithActionLabel(label string) Option {
	return func(c *Component) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			c.actionLabel = trimmed
		}
	}
}

// WithLogger sets the logger used for activation events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}
