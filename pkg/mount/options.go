package mount

import (
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/render"
)

// Option configures a Mounter.
type Option func(*Mounter)

// WithRegistry supplies the renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(m *Mounter) {
		m.registry = registry
	}
}

// WithDefaultRenderer names the renderer used when a request does not.
func WithDefaultRenderer(name string) Option {
	return func(m *Mounter) {
		if name != "" {
			m.defaultRenderer = name
		}
	}
}

// WithBootstrapOptions configures how the payload is located and decoded.
func WithBootstrapOptions(options ...bootstrap.Option) Option {
	return func(m *Mounter) {
		m.bootstrapOptions = append(m.bootstrapOptions, options...)
	}
}

// WithEnvelope reads the payload as a bootstrap.Envelope so its locale and
// flash messages reach the renderer.
func WithEnvelope() Option {
	return func(m *Mounter) {
		m.envelope = true
	}
}

// WithFormOptions appends options applied to every component.
func WithFormOptions(options ...form.Option) Option {
	return func(m *Mounter) {
		m.formOptions = append(m.formOptions, options...)
	}
}

// WithTranslator sets the label lookup used for widget labels and the title.
func WithTranslator(t i18n.Translator) Option {
	return func(m *Mounter) {
		m.translator = t
	}
}

// WithThemeSelector resolves a theme per request.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(m *Mounter) {
		m.themes = selector
	}
}

// WithThemeFallbacks sets the partials used when a theme does not override
// them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(m *Mounter) {
		m.themeFallbacks = fallbacks
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mounter) {
		if logger != nil {
			m.logger = logger
		}
	}
}
