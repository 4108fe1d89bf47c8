package render

import (
	"net/http"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data renderers use without touching the
// form view.
type RenderOptions struct {
	// Locale is exposed to templates as the document language.
	Locale string
	// Hidden fields are emitted inside the form, sorted by name.
	Hidden []HiddenField
	// Theme supplies tokens, CSS variables and asset URLs.
	Theme *theme.RendererConfig
	// FormAction is the URL the action control submits to. Empty renders a
	// plain link-style control.
	FormAction string
	// Method defaults to POST.
	Method string
	// Flash messages are shown above the form.
	Flash []string
}

// FormMethod returns the normalized submission method.
func (o RenderOptions) FormMethod() string {
	method := strings.ToUpper(strings.TrimSpace(o.Method))
	switch method {
	case http.MethodGet, http.MethodPost:
		return method
	default:
		return http.MethodPost
	}
}

// FlashMessages returns the trimmed, non-empty, de-duplicated flash messages.
func (o RenderOptions) FlashMessages() []string {
	if len(o.Flash) == 0 {
		return nil
	}
	out := make([]string, 0, len(o.Flash))
	seen := make(map[string]struct{}, len(o.Flash))
	for _, message := range o.Flash {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
