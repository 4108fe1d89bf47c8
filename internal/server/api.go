package server

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
)

func registerAPI(api huma.API, s *Server) {
	group := huma.NewGroup(api, "/api")

	huma.Get(group, "/parameters", s.handleParameters)
	huma.Post(group, "/target", s.handleTarget)
}

type parametersInput struct {
	Locale string `query:"locale"`
}

type parametersPayload struct {
	Title   string        `json:"title"`
	Locale  string        `json:"locale"`
	Widgets []form.Widget `json:"widgets"`
	Action  form.Action   `json:"action"`
}

type parametersOutput struct {
	Body parametersPayload
}

// handleParameters describes the configured form as the page would render it.
func (s *Server) handleParameters(_ context.Context, input *parametersInput) (*parametersOutput, error) {
	locale := strings.TrimSpace(input.Locale)
	if locale == "" {
		locale = s.cfg.I18n.Locale
	}
	component, err := s.mounter.Component(s.params, locale)
	if err != nil {
		return nil, huma.Error500InternalServerError("unable to build form")
	}
	view, err := component.Render()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	return &parametersOutput{
		Body: parametersPayload{
			Title:   view.Title,
			Locale:  locale,
			Widgets: view.Widgets,
			Action:  view.Action,
		},
	}, nil
}

type targetInput struct {
	RawBody []byte `contentType:"application/json"`
}

type targetPayload struct {
	Target string `json:"target"`
}

type targetOutput struct {
	Body targetPayload
}

// handleTarget computes the destination for a posted parameter object
// without navigating.
func (s *Server) handleTarget(ctx context.Context, input *targetInput) (*targetOutput, error) {
	set, err := bootstrap.Decode(string(input.RawBody), bootstrap.WithStrict())
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	if set.Len() == 0 {
		return nil, huma.Error400BadRequest("no parameters")
	}

	component, err := s.mounter.Component(set, s.cfg.I18n.Locale)
	if err != nil {
		return nil, huma.Error500InternalServerError("unable to build form")
	}
	target, err := component.Activate(ctx)
	if err != nil {
		if errors.Is(err, form.ErrActionDisabled) {
			return nil, huma.Error409Conflict("action disabled for these parameters")
		}
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	return &targetOutput{Body: targetPayload{Target: target}}, nil
}

