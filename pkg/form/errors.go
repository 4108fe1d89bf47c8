package form

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-paramform/pkg/params"
)

var (
	// ErrRender matches every RenderError via errors.Is.
	ErrRender = errors.New("form: value cannot be rendered")
	// ErrActionDisabled is returned by Activate when the predicate does not hold.
	ErrActionDisabled = errors.New("form: action disabled")
	// ErrAlreadyActivated is returned by Activate after the first navigation.
	ErrAlreadyActivated = errors.New("form: action already activated")
)

// RenderError reports a parameter whose value has no widget representation.
type RenderError struct {
	Key  string
	Kind params.Kind
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("form: parameter %q has unrenderable %s value", e.Key, e.Kind)
}

// Is lets errors.Is(err, ErrRender) match.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
