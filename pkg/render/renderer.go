// Package render defines the renderer contract shared by the HTML and
// terminal front-ends, plus the per-request options they consume.
package render

import (
	"context"

	"github.com/goliatone/go-paramform/pkg/form"
)

// Renderer converts a form view into bytes (HTML, terminal output, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view form.View, options RenderOptions) ([]byte, error)
}

// ErrorRenderer is implemented by renderers that can show the error state in
// place of the form.
type ErrorRenderer interface {
	RenderError(ctx context.Context, view ErrorView, options RenderOptions) ([]byte, error)
}
