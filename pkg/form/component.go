// Package form implements the parameter form component: one labeled widget
// per parameter plus a single action that navigates to a computed target.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/predicate"
)

// ErrNoNavigator is returned by New when no navigator is configured.
var ErrNoNavigator = errors.New("form: navigator is required")

// Component owns a ParameterSet and the action state. It is safe for
// concurrent use.
type Component struct {
	set         params.Set
	labeler     func(string) string
	predicate   predicate.Predicate
	builder     navigation.TargetBuilder
	navigator   navigation.Navigator
	title       string
	actionLabel string
	logger      *slog.Logger

	mu    sync.Mutex
	state State
}

// New constructs a component for set. A navigator must be supplied.
func New(set params.Set, options ...Option) (*Component, error) {
	c := &Component{
		set:         set,
		labeler:     i18n.Humanize,
		predicate:   predicate.AllPresent(),
		builder:     navigation.Query{Base: navigation.DefaultBase},
		title:       DefaultTitle,
		actionLabel: DefaultActionLabel,
		logger:      slog.Default(),
		state:       StateInitial,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.navigator == nil {
		return nil, ErrNoNavigator
	}
	return c, nil
}

// Params returns the component's parameters.
func (c *Component) Params() params.Set {
	return c.set
}

// State reports the lifecycle position.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Render describes the form: one widget per parameter, in order, followed by
// the action control. A composite value fails the whole render with a
// *RenderError so no parameter is dropped.
func (c *Component) Render() (View, error) {
	widgets := make([]Widget, 0, c.set.Len())
	var renderErr error
	c.set.Each(func(p params.Parameter) bool {
		if !p.Value.IsScalar() {
			renderErr = &RenderError{Key: p.Key, Kind: p.Value.Kind()}
			return false
		}
		widgets = append(widgets, c.widget(p))
		return true
	})
	if renderErr != nil {
		return View{}, renderErr
	}

	c.mu.Lock()
	if c.state == StateInitial {
		c.state = StateReady
	}
	enabled := c.enabledLocked()
	c.mu.Unlock()

	return View{
		Title:   c.title,
		Widgets: widgets,
		Action: Action{
			Label:   c.actionLabel,
			Enabled: enabled,
		},
	}, nil
}

// IsActionEnabled reports whether activation would navigate.
func (c *Component) IsActionEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabledLocked()
}

// Activate builds the target and navigates once. Later calls, and calls while
// the predicate does not hold, never navigate.
func (c *Component) Activate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state == StateNavigating {
		c.mu.Unlock()
		return "", ErrAlreadyActivated
	}
	if !c.enabledLocked() {
		c.mu.Unlock()
		return "", ErrActionDisabled
	}
	target, err := c.builder.Build(c.set)
	if err != nil {
		c.mu.Unlock()
		return "", fmt.Errorf("form: build target: %w", err)
	}
	c.state = StateNavigating
	c.mu.Unlock()

	c.logger.Debug("form activated", "target", target, "params", c.set.Len())
	if err := c.navigator.Navigate(ctx, target); err != nil {
		return target, fmt.Errorf("form: navigate: %w", err)
	}
	return target, nil
}

func (c *Component) enabledLocked() bool {
	if c.state == StateNavigating || c.state == StateFailed {
		return false
	}
	if len(c.set.Composites()) > 0 {
		return false
	}
	return c.predicate.Enabled(c.set)
}

func (c *Component) widget(p params.Parameter) Widget {
	label := strings.TrimSpace(c.labeler(p.Key))
	if label == "" {
		label = p.Key
	}
	w := Widget{
		Key:       p.Key,
		Label:     label,
		Value:     p.Value.String(),
		InputType: inputType(p.Value.Kind()),
	}
	if p.Value.Kind() == params.KindBool {
		w.Checked = p.Value.String() == "true"
	}
	return w
}
