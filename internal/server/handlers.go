package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/mount"
	"github.com/goliatone/go-paramform/pkg/navigation"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/vanilla"
)

const (
	msgResubmitted = "This form was already submitted. Review the parameters and run it again."
	msgDisabled    = "Fill in every required parameter before running the script."
)

var stylesheetURL = assetsPath + vanilla.StylesheetName

// handlePage embeds the parameters in the page shell, mounts the form from
// that shell and writes the finished document.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locale := s.locale(r)

	token, err := s.issueActivation(ctx)
	if err != nil {
		s.logger.Error("issue activation token", "error", err)
		http.Error(w, "unable to render form", http.StatusInternalServerError)
		return
	}

	set, err := overlayQuery(s.params, r.URL.Query())
	if err != nil {
		s.addFlash(ctx, "error", err.Error())
		set = s.params
	}

	raw, err := bootstrap.Encode(bootstrap.Envelope{
		Params:        set,
		Locale:        locale,
		FlashMessages: s.popFlash(ctx),
	})
	if err != nil {
		s.logger.Error("encode bootstrap", "error", err)
		http.Error(w, "unable to render form", http.StatusInternalServerError)
		return
	}

	shell, err := s.renderer.RenderPage(ctx, vanilla.Page{
		Title:      s.translate(locale, form.DefaultTitle),
		MountID:    bootstrap.DefaultElementID,
		Bootstrap:  raw,
		Stylesheet: stylesheetURL,
	}, render.RenderOptions{Locale: locale})
	if err != nil {
		s.logger.Error("render page shell", "error", err)
		http.Error(w, "unable to render form", http.StatusInternalServerError)
		return
	}

	result, err := s.mounter.Mount(ctx, bytes.NewReader(shell), mount.Request{
		ThemeName:    r.URL.Query().Get("theme"),
		ThemeVariant: r.URL.Query().Get("variant"),
		RenderOptions: render.RenderOptions{
			FormAction: activateURL(locale, s.cfg.I18n.Locale),
			Method:     http.MethodPost,
			Hidden:     []render.HiddenField{render.ActivationToken(token)},
		},
	})
	if err != nil {
		s.logger.Error("mount form", "error", err)
		http.Error(w, "unable to render form", http.StatusInternalServerError)
		return
	}

	title := result.View.Title
	if result.Failed {
		title = result.ErrorView.Title
	}
	page, err := s.renderer.RenderPage(ctx, vanilla.Page{
		Title:      title,
		MountID:    bootstrap.DefaultElementID,
		Body:       result.Output,
		Stylesheet: stylesheetURL,
	}, render.RenderOptions{Locale: locale})
	if err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "unable to render form", http.StatusInternalServerError)
		return
	}

	setNoCacheHeaders(w)
	w.Header().Set("Content-Type", result.ContentType)
	_, _ = w.Write(page)
}

// handleActivate checks the one-shot token, applies the posted values and
// lets the component redirect to its target.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	locale := s.locale(r)

	if !s.consumeActivation(ctx, r.PostForm.Get(render.ActivationField)) {
		s.logger.Info("activation rejected", "reason", "token")
		s.addFlash(ctx, "warning", s.translate(locale, msgResubmitted))
		http.Redirect(w, r, pageURL(locale, s.cfg.I18n.Locale), http.StatusSeeOther)
		return
	}
	if err := s.sessions.RenewToken(ctx); err != nil {
		s.logger.Error("renew session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}

	set, err := applyForm(s.params, r.PostForm)
	if err != nil {
		s.addFlash(ctx, "error", err.Error())
		http.Redirect(w, r, pageURL(locale, s.cfg.I18n.Locale), http.StatusSeeOther)
		return
	}

	component, err := s.mounter.Component(set, locale, form.WithNavigator(&navigation.Redirect{W: w, R: r}))
	if err != nil {
		s.logger.Error("build component", "error", err)
		http.Error(w, "unable to activate", http.StatusInternalServerError)
		return
	}

	_, err = component.Activate(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, form.ErrActionDisabled):
		s.addFlash(ctx, "warning", s.translate(locale, msgDisabled))
		http.Redirect(w, r, pageURL(locale, s.cfg.I18n.Locale), http.StatusSeeOther)
	default:
		s.logger.Error("activate", "error", err)
		http.Error(w, "unable to activate", http.StatusInternalServerError)
	}
}

// handleView is the default destination: it lists the parameters it
// received, in request order.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A configured parameter named "locale" belongs to the summary, so the
	// view falls back to the default UI locale.
	skipLocale := !s.params.Has(localeParam)
	locale := s.cfg.I18n.Locale
	if skipLocale {
		locale = s.locale(r)
	}

	entries, err := orderedQuery(r.URL.RawQuery, skipLocale)
	if err != nil {
		http.Error(w, "invalid query", http.StatusBadRequest)
		return
	}
	set, err := params.New(entries...)
	if err != nil {
		http.Error(w, "invalid query", http.StatusBadRequest)
		return
	}

	component, err := s.mounter.Component(set, locale)
	if err != nil {
		s.logger.Error("build component", "error", err)
		http.Error(w, "unable to render view", http.StatusInternalServerError)
		return
	}
	view, err := component.Render()
	if err != nil {
		s.logger.Error("render view", "error", err)
		http.Error(w, "unable to render view", http.StatusInternalServerError)
		return
	}

	options := render.RenderOptions{Locale: locale}
	body, err := s.renderer.RenderSummary(ctx, view.Title, view.Widgets, options)
	if err == nil {
		body, err = s.renderer.RenderPage(ctx, vanilla.Page{
			Title:      view.Title,
			MountID:    bootstrap.DefaultElementID,
			Body:       body,
			Stylesheet: stylesheetURL,
		}, options)
	}
	if err != nil {
		s.logger.Error("render view", "error", err)
		http.Error(w, "unable to render view", http.StatusInternalServerError)
		return
	}

	setNoCacheHeaders(w)
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write(body)
}

// applyForm returns set with the posted values applied. Values keep the kind
// of the configured parameter; keys that were not posted are unchanged.
func applyForm(set params.Set, values url.Values) (params.Set, error) {
	out := set
	for _, entry := range set.Parameters() {
		posted, ok := values[entry.Key]
		if !ok || len(posted) == 0 {
			continue
		}
		raw := posted[len(posted)-1]

		var value params.Value
		switch entry.Value.Kind() {
		case params.KindBool:
			value = params.Bool(raw == "true" || raw == "on")
		case params.KindNumber:
			if strings.TrimSpace(raw) == "" {
				value = params.Null()
				break
			}
			number, err := params.Number(strings.TrimSpace(raw))
			if err != nil {
				return params.Set{}, fmt.Errorf("%s: %q is not a number", entry.Key, raw)
			}
			value = number
		case params.KindNull:
			if raw == "" {
				value = params.Null()
			} else {
				value = params.String(raw)
			}
		case params.KindComposite:
			continue
		default:
			value = params.String(raw)
		}

		var err error
		out, err = out.With(entry.Key, value)
		if err != nil {
			return params.Set{}, err
		}
	}
	return out, nil
}

// overlayQuery lets a page link preset configured parameters as strings.
// Unknown keys are ignored.
func overlayQuery(set params.Set, query url.Values) (params.Set, error) {
	filtered := url.Values{}
	for _, key := range set.Keys() {
		if values, ok := query[key]; ok {
			filtered[key] = values
		}
	}
	if len(filtered) == 0 {
		return set, nil
	}
	return applyForm(set, filtered)
}

// orderedQuery decodes a raw query keeping pair order. A repeated key keeps
// its first position and takes the last value. Empty keys are dropped, and
// so is the UI locale key when skipLocale is set.
func orderedQuery(raw string, skipLocale bool) ([]params.Parameter, error) {
	var entries []params.Parameter
	positions := make(map[string]int)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}
		if key == "" || (skipLocale && key == localeParam) {
			continue
		}
		if idx, ok := positions[key]; ok {
			entries[idx].Value = params.String(value)
			continue
		}
		positions[key] = len(entries)
		entries = append(entries, params.Parameter{Key: key, Value: params.String(value)})
	}
	return entries, nil
}

func pageURL(locale, defaultLocale string) string {
	return withLocale(pagePath, locale, defaultLocale)
}

func activateURL(locale, defaultLocale string) string {
	return withLocale(activatePath, locale, defaultLocale)
}

func withLocale(path, locale, defaultLocale string) string {
	if locale == "" || locale == defaultLocale {
		return path
	}
	return path + "?locale=" + url.QueryEscape(locale)
}
