package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidNumber is returned by the number validator.
	ErrInvalidNumber = errors.New("tui: not a number")
)
