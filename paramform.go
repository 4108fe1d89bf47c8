// Package paramform renders a parameter form from a page's bootstrap payload
// and navigates to a target computed from the parameters when its action is
// activated.
//
// The root package re-exports the common entry points; the building blocks
// live under pkg/.
package paramform

import (
	"context"
	"io"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/mount"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
)

// Mounter aliases mount.Mounter.
type Mounter = mount.Mounter

// Request aliases mount.Request.
type Request = mount.Request

// Result aliases mount.Result.
type Result = mount.Result

// RenderOptions describes per-request renderer inputs such as hidden fields,
// flash messages and the form action.
type RenderOptions = render.RenderOptions

// ParameterSet aliases params.Set.
type ParameterSet = params.Set

// NewMounter exposes the mount constructor from the top-level module.
func NewMounter(options ...mount.Option) *Mounter {
	return mount.New(options...)
}

// Mount reads the bootstrap payload from page and renders the form with the
// named renderer ("vanilla" when empty). Bootstrap and render failures are
// reported through Result.Failed with the error state in Result.Output.
func Mount(ctx context.Context, page io.Reader, rendererName string, options ...mount.Option) (Result, error) {
	return mount.New(options...).Mount(ctx, page, Request{Renderer: rendererName})
}

// MountSet renders an already decoded parameter set.
func MountSet(ctx context.Context, set ParameterSet, rendererName string, options ...mount.Option) (Result, error) {
	return mount.New(options...).MountSet(ctx, set, Request{Renderer: rendererName})
}

// WithFormOptions forwards component options such as the navigator or the
// enable predicate.
func WithFormOptions(options ...form.Option) mount.Option {
	return mount.WithFormOptions(options...)
}

// WithThemeSelector passes a go-theme selector through to the mounter so
// theme and variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) mount.Option {
	return mount.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards the partials used when a theme does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) mount.Option {
	return mount.WithThemeFallbacks(fallbacks)
}
