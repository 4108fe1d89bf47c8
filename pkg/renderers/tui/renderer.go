// Package tui renders the parameter form as terminal prompts. Each widget is
// prompted with its current value as the default, and the action is offered
// as a final confirmation when enabled.
package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
)

// Renderer implements render.Renderer on top of a PromptDriver.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var (
	_ render.Renderer      = (*Renderer)(nil)
	_ render.ErrorRenderer = (*Renderer)(nil)
)

// New constructs the renderer. The survey driver is used unless one is
// supplied.
func New(options ...Option) *Renderer {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Submission is what the prompts collected.
type Submission struct {
	Params   params.Set `json:"params"`
	Activate bool       `json:"activate"`
}

// Render prompts for every widget and serializes the submission.
func (r *Renderer) Render(ctx context.Context, view form.View, options render.RenderOptions) ([]byte, error) {
	submission, err := r.Collect(ctx, view, options)
	if err != nil {
		return nil, err
	}
	return r.Encode(submission)
}

// Collect runs the prompts and returns the edited parameters in widget order.
// The action confirmation is only asked when the action is enabled.
func (r *Renderer) Collect(ctx context.Context, view form.View, options render.RenderOptions) (Submission, error) {
	if strings.TrimSpace(view.Title) != "" {
		if err := r.info(ctx, view.Title); err != nil {
			return Submission{}, err
		}
	}
	for _, message := range options.FlashMessages() {
		if err := r.info(ctx, message); err != nil {
			return Submission{}, err
		}
	}

	entries := make([]params.Parameter, 0, len(view.Widgets))
	for _, widget := range view.Widgets {
		value, err := r.prompt(ctx, widget)
		if err != nil {
			return Submission{}, fmt.Errorf("tui: prompt %q: %w", widget.Key, err)
		}
		entries = append(entries, params.Parameter{Key: widget.Key, Value: value})
	}
	set, err := params.New(entries...)
	if err != nil {
		return Submission{}, fmt.Errorf("tui: collect: %w", err)
	}

	submission := Submission{Params: set}
	if !view.Action.Enabled {
		return submission, nil
	}
	activate, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: view.Action.Label + "?",
		Default: true,
	})
	if err != nil {
		return Submission{}, fmt.Errorf("tui: confirm action: %w", err)
	}
	submission.Activate = activate
	return submission, nil
}

// RenderError prints the error state and returns it as text.
func (r *Renderer) RenderError(ctx context.Context, view render.ErrorView, _ render.RenderOptions) ([]byte, error) {
	msg := r.theme.ErrorPrefix + view.Message
	if err := r.driver.Info(ctx, msg); err != nil {
		return nil, err
	}
	return []byte(msg + "\n"), nil
}

func (r *Renderer) prompt(ctx context.Context, widget form.Widget) (params.Value, error) {
	switch widget.InputType {
	case form.InputCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: widget.Label,
			Default: widget.Checked,
		})
		if err != nil {
			return params.Value{}, err
		}
		return params.Bool(checked), nil
	case form.InputNumber:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   widget.Label,
			Default:   widget.Value,
			Validator: validateNumber,
		})
		if err != nil {
			return params.Value{}, err
		}
		return params.Number(strings.TrimSpace(answer))
	default:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: widget.Label,
			Default: widget.Value,
		})
		if err != nil {
			return params.Value{}, err
		}
		return params.String(answer), nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

// Encode serializes a submission in the configured output format.
func (r *Renderer) Encode(submission Submission) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatPrettyText:
		var buf bytes.Buffer
		submission.Params.Each(func(p params.Parameter) bool {
			fmt.Fprintf(&buf, "%s = %s\n", p.Key, p.Value.String())
			return true
		})
		fmt.Fprintf(&buf, "activate = %t\n", submission.Activate)
		return buf.Bytes(), nil
	default:
		return json.Marshal(submission)
	}
}

func validateNumber(answer string) error {
	if _, err := params.Number(answer); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, answer)
	}
	return nil
}
