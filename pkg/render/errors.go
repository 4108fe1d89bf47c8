package render

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-paramform/pkg/bootstrap"
	"github.com/goliatone/go-paramform/pkg/form"
)

// ErrorKind classifies a mount failure for display.
type ErrorKind string

const (
	ErrorKindElementNotFound ErrorKind = "element_not_found"
	ErrorKindParse           ErrorKind = "parse"
	ErrorKindRender          ErrorKind = "render"
	ErrorKindUnknown         ErrorKind = "unknown"
)

// DefaultErrorTitle heads the error state.
const DefaultErrorTitle = "Run Script"

// ErrorView replaces the form when it cannot be shown. The action control is
// never part of it.
type ErrorView struct {
	Title   string    `json:"title"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
}

// DescribeError maps a mount failure to a user-facing view. Detail keeps the
// underlying error text for logs and debug output.
func DescribeError(err error) ErrorView {
	view := ErrorView{
		Title: DefaultErrorTitle,
		Kind:  ErrorKindUnknown,
	}
	if err == nil {
		view.Message = "The form could not be displayed."
		return view
	}
	view.Detail = err.Error()

	var (
		notFound  *bootstrap.ElementNotFoundError
		parseErr  *bootstrap.ParseError
		renderErr *form.RenderError
	)
	switch {
	case errors.As(err, &notFound):
		view.Kind = ErrorKindElementNotFound
		view.Message = fmt.Sprintf("The form could not be loaded: element #%s was not found on the page.", notFound.ID)
	case errors.As(err, &parseErr):
		view.Kind = ErrorKindParse
		view.Message = "The form could not be loaded: the parameter data is malformed."
	case errors.As(err, &renderErr):
		view.Kind = ErrorKindRender
		view.Message = fmt.Sprintf("Parameter %q cannot be displayed.", renderErr.Key)
	case errors.Is(err, bootstrap.ErrElementNotFound):
		view.Kind = ErrorKindElementNotFound
		view.Message = "The form could not be loaded: the mount element was not found on the page."
	case errors.Is(err, bootstrap.ErrParse):
		view.Kind = ErrorKindParse
		view.Message = "The form could not be loaded: the parameter data is malformed."
	case errors.Is(err, form.ErrRender):
		view.Kind = ErrorKindRender
		view.Message = "A parameter cannot be displayed."
	default:
		view.Message = "The form could not be displayed."
	}
	return view
}

// IsMountError reports whether err belongs to the taxonomy the mount boundary
// turns into an error view.
func IsMountError(err error) bool {
	return errors.Is(err, bootstrap.ErrElementNotFound) ||
		errors.Is(err, bootstrap.ErrParse) ||
		errors.Is(err, form.ErrRender)
}
