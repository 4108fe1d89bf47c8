package form

import "github.com/goliatone/go-paramform/pkg/params"

// Input type hints attached to widgets.
const (
	InputText     = "text"
	InputNumber   = "number"
	InputCheckbox = "checkbox"
)

// Widget is one labeled input. Value holds the display text of the parameter.
type Widget struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	InputType string `json:"input_type"`
	Checked   bool   `json:"checked,omitempty"`
}

// Action describes the single action control.
type Action struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// View is the renderer-neutral description produced by Component.Render.
type View struct {
	Title   string   `json:"title"`
	Widgets []Widget `json:"widgets"`
	Action  Action   `json:"action"`
}

func inputType(kind params.Kind) string {
	switch kind {
	case params.KindNumber:
		return InputNumber
	case params.KindBool:
		return InputCheckbox
	default:
		return InputText
	}
}
