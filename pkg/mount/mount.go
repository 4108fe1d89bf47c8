package mount

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Mounter runs bootstrap → component → renderer.
type Mounter struct {
	registry         *render.Registry
	defaultRenderer  string
	bootstrapOptions []bootstrap.Option
	envelope         bool
	formOptions      []form.Option
	translator       i18n.Translator
	themes           theme.ThemeSelector
	themeFallbacks   map[string]string
	logger           *slog.Logger
	initialiseErr    error
}

// New constructs a Mounter. Without a registry the vanilla renderer is
// registered.
func New(options ...Option) *Mounter {
	m := &Mounter{
		defaultRenderer: defaultRendererName,
		logger:          slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	if m.registry == nil {
		m.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			m.initialiseErr = fmt.Errorf("mount: default renderer: %w", err)
		} else {
			m.registry.MustRegister(renderer)
		}
	}
	if m.themeFallbacks == nil {
		m.themeFallbacks = vanilla.DefaultPartials()
	}
	return m
}

// Request carries the per-mount inputs.
type Request struct {
	// Renderer names the renderer; empty uses the default.
	Renderer string
	// Locale selects labels. The envelope locale is used when empty.
	Locale string
	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string
	// RenderOptions are forwarded to the renderer.
	RenderOptions render.RenderOptions
	// FormOptions are applied after the Mounter's own, for example a
	// request-scoped navigator.
	FormOptions []form.Option
}

// Result describes a mount. When Failed is true, Output holds the error state,
// Err the cause and Component is nil.
type Result struct {
	Output      []byte
	ContentType string
	Renderer    string
	Params      params.Set
	View        form.View
	Component   *form.Component
	Failed      bool
	Err         error
	ErrorView   render.ErrorView
}

// Mount reads the bootstrap payload from page and renders the form. Bootstrap
// and render failures produce a failed Result and a nil error; the returned
// error covers everything else (unknown renderer, cancelled context, theme
// lookup).
func (m *Mounter) Mount(ctx context.Context, page io.Reader, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("mount: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if m.initialiseErr != nil {
		return Result{}, m.initialiseErr
	}

	renderer, err := m.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}
	options, err := m.renderOptions(req)
	if err != nil {
		return Result{}, err
	}

	set, err := m.read(ctx, page, &req, &options)
	if err != nil {
		if render.IsMountError(err) {
			return m.fail(ctx, renderer, options, err)
		}
		return Result{}, err
	}
	return m.mount(ctx, renderer, set, req, options)
}

// MountSet renders an already decoded parameter set, skipping the page read.
func (m *Mounter) MountSet(ctx context.Context, set params.Set, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("mount: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if m.initialiseErr != nil {
		return Result{}, m.initialiseErr
	}

	renderer, err := m.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}
	options, err := m.renderOptions(req)
	if err != nil {
		return Result{}, err
	}
	return m.mount(ctx, renderer, set, req, options)
}

// Component builds a form component for set with the Mounter's labels and
// options, without rendering it.
func (m *Mounter) Component(set params.Set, locale string, extra ...form.Option) (*form.Component, error) {
	options := []form.Option{
		form.WithNavigator(&navigation.Recorder{}),
		form.WithLabeler(i18n.Labeler(m.translator, locale, nil)),
		form.WithTitle(m.translate(locale, form.DefaultTitle)),
		form.WithActionLabel(m.translate(locale, form.DefaultActionLabel)),
		form.WithLogger(m.logger),
	}
	options = append(options, m.formOptions...)
	options = append(options, extra...)
	return form.New(set, options...)
}

func (m *Mounter) mount(ctx context.Context, renderer render.Renderer, set params.Set, req Request, options render.RenderOptions) (Result, error) {
	component, err := m.Component(set, options.Locale, req.FormOptions...)
	if err != nil {
		return Result{}, fmt.Errorf("mount: build component: %w", err)
	}

	view, err := component.Render()
	if err != nil {
		if render.IsMountError(err) {
			result, failErr := m.fail(ctx, renderer, options, err)
			result.Params = set
			return result, failErr
		}
		return Result{}, err
	}

	output, err := renderer.Render(ctx, view, options)
	if err != nil {
		return Result{}, fmt.Errorf("mount: render output: %w", err)
	}

	m.logger.Debug("form mounted",
		"renderer", renderer.Name(),
		"params", set.Len(),
		"enabled", view.Action.Enabled,
	)
	return Result{
		Output:      output,
		ContentType: renderer.ContentType(),
		Renderer:    renderer.Name(),
		Params:      set,
		View:        view,
		Component:   component,
	}, nil
}

func (m *Mounter) read(ctx context.Context, page io.Reader, req *Request, options *render.RenderOptions) (params.Set, error) {
	if !m.envelope {
		return bootstrap.Read(ctx, page, m.bootstrapOptions...)
	}

	envelope, err := bootstrap.ReadEnvelope(ctx, page, m.bootstrapOptions...)
	if err != nil {
		return params.Set{}, err
	}
	if strings.TrimSpace(options.Locale) == "" && envelope.Locale != "" {
		options.Locale = envelope.Locale
		req.Locale = envelope.Locale
	}
	for _, flash := range envelope.FlashMessages {
		options.Flash = append(options.Flash, flash.Message)
	}
	return envelope.Params, nil
}

func (m *Mounter) fail(ctx context.Context, renderer render.Renderer, options render.RenderOptions, cause error) (Result, error) {
	view := render.DescribeError(cause)
	view.Title = m.translate(options.Locale, view.Title)
	m.logger.Warn("form mount failed", "kind", string(view.Kind), "error", cause)

	result := Result{
		Renderer:  renderer.Name(),
		Failed:    true,
		Err:       cause,
		ErrorView: view,
	}

	errRenderer, ok := renderer.(render.ErrorRenderer)
	if !ok {
		result.Output = []byte(view.Message + "\n")
		result.ContentType = "text/plain; charset=utf-8"
		return result, nil
	}
	output, err := errRenderer.RenderError(ctx, view, options)
	if err != nil {
		return Result{}, fmt.Errorf("mount: render error state: %w", err)
	}
	result.Output = output
	result.ContentType = renderer.ContentType()
	return result, nil
}

func (m *Mounter) renderOptions(req Request) (render.RenderOptions, error) {
	options := req.RenderOptions
	if strings.TrimSpace(req.Locale) != "" {
		options.Locale = req.Locale
	}
	if options.Theme != nil || m.themes == nil {
		return options, nil
	}
	selection, err := m.themes.Select(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return render.RenderOptions{}, fmt.Errorf("mount: select theme: %w", err)
	}
	options.Theme = render.ThemeConfig(selection, m.themeFallbacks)
	return options, nil
}

func (m *Mounter) rendererFor(name string) (render.Renderer, error) {
	if m.registry == nil {
		return nil, errors.New("mount: renderer registry is nil")
	}
	renderer, err := m.registry.Resolve(name, m.defaultRenderer)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}
	return renderer, nil
}

func (m *Mounter) translate(locale, text string) string {
	if m.translator == nil {
		return text
	}
	translated, err := m.translator.Translate(locale, text)
	if err != nil || strings.TrimSpace(translated) == "" {
		return text
	}
	return i18n.SanitizeLabel(translated)
}
