package bootstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrElementNotFound matches *ElementNotFoundError via errors.Is.
	ErrElementNotFound = errors.New("bootstrap: mount element not found")
	// ErrParse matches *ParseError via errors.Is.
	ErrParse = errors.New("bootstrap: parse error")
)

// ElementNotFoundError reports a missing mount element.
type ElementNotFoundError struct {
	ID string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("bootstrap: element #%s not found", e.ID)
}

// Is allows errors.Is(err, ErrElementNotFound).
func (e *ElementNotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

// ParseError reports a missing, empty or malformed bootstrap attribute.
type ParseError struct {
	Attribute string
	Reason    string
	Err       error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("bootstrap: attribute %q: %s", e.Attribute, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrParse).
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
