// Package vanilla renders the parameter form as server-side HTML using the
// embedded pongo2 templates.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/render"
	rendertemplate "github.com/goliatone/go-paramform/pkg/render/template"
	"github.com/goliatone/go-paramform/pkg/render/template/gotemplate"
)

// Theme partial keys. A theme may point any of them at its own template.
const (
	PartialForm    = "paramform.form"
	PartialError   = "paramform.error"
	PartialSummary = "paramform.summary"
	PartialPage    = "paramform.page"
)

var defaultPartials = map[string]string{
	PartialForm:    "templates/form.tmpl",
	PartialError:   "templates/error.tmpl",
	PartialSummary: "templates/summary.tmpl",
	PartialPage:    "templates/page.tmpl",
}

// DefaultPartials returns a copy of the built-in partial map, suitable as the
// fallback argument of render.ThemeConfig.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(defaultPartials))
	for key, value := range defaultPartials {
		out[key] = value
	}
	return out
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	debug            bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDebug includes the underlying error text in the error state.
func WithDebug(debug bool) Option {
	return func(cfg *config) {
		cfg.debug = debug
	}
}

// Renderer implements render.Renderer and render.ErrorRenderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	debug     bool
}

var (
	_ render.Renderer      = (*Renderer)(nil)
	_ render.ErrorRenderer = (*Renderer)(nil)
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, debug: cfg.debug}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type widgetData struct {
	form.Widget
	ID string `json:"id"`
}

type themeData struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style"`
}

// Render produces the form fragment: widgets in view order, hidden fields,
// flash messages and the action control.
func (r *Renderer) Render(ctx context.Context, view form.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	widgets := make([]widgetData, 0, len(view.Widgets))
	for _, widget := range view.Widgets {
		widgets = append(widgets, widgetData{Widget: widget, ID: controlID(widget.Key)})
	}
	hidden := render.NormalizeHidden(options.Hidden...)
	if hidden == nil {
		hidden = []render.HiddenField{}
	}
	flash := options.FlashMessages()
	if flash == nil {
		flash = []string{}
	}

	return r.execute(PartialForm, options, map[string]any{
		"view":    view,
		"widgets": widgets,
		"hidden":  hidden,
		"flash":   flash,
		"action":  strings.TrimSpace(options.FormAction),
		"method":  options.FormMethod(),
		"theme":   themeFor(options),
	})
}

// RenderError produces the error state shown in place of the form.
func (r *Renderer) RenderError(ctx context.Context, view render.ErrorView, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.execute(PartialError, options, map[string]any{
		"error": view,
		"debug": r.debug,
		"theme": themeFor(options),
	})
}

// RenderSummary lists resolved parameters; used by the destination view.
func (r *Renderer) RenderSummary(ctx context.Context, title string, widgets []form.Widget, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if widgets == nil {
		widgets = []form.Widget{}
	}
	return r.execute(PartialSummary, options, map[string]any{
		"title":   title,
		"widgets": widgets,
	})
}

// Page describes the document shell around a fragment. Bootstrap, when set,
// is the raw JSON placed in the mount element's data-bootstrap attribute.
type Page struct {
	Title      string
	MountID    string
	Bootstrap  string
	Body       []byte
	Stylesheet string
}

// RenderPage wraps a fragment in the full document with the mount element.
func (r *Renderer) RenderPage(ctx context.Context, page Page, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stylesheet := page.Stylesheet
	if stylesheet == "" && options.Theme != nil && options.Theme.AssetURL != nil {
		stylesheet = options.Theme.AssetURL("stylesheet")
	}
	return r.execute(PartialPage, options, map[string]any{
		"title":      page.Title,
		"lang":       htmlLang(options.Locale),
		"mount_id":   page.MountID,
		"bootstrap":  page.Bootstrap,
		"body":       string(page.Body),
		"stylesheet": stylesheet,
	})
}

func (r *Renderer) execute(partial string, options render.RenderOptions, data map[string]any) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	name := defaultPartials[partial]
	if options.Theme != nil {
		if override := strings.TrimSpace(options.Theme.Partials[partial]); override != "" {
			name = override
		}
	}
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s: %w", partial, err)
	}
	return []byte(result), nil
}

func themeFor(options render.RenderOptions) themeData {
	if options.Theme == nil {
		return themeData{}
	}
	return themeData{
		Name:    options.Theme.Theme,
		Variant: options.Theme.Variant,
		Style:   render.CSSVarsStyle(options.Theme.CSSVars),
	}
}
