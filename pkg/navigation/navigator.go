package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Navigator delegates a destination to the hosting runtime.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function into a Navigator.
type NavigatorFunc func(ctx context.Context, target string) error

// Navigate calls the underlying function.
func (fn NavigatorFunc) Navigate(ctx context.Context, target string) error {
	return fn(ctx, target)
}

// Recorder stores every navigation it receives. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	targets []string
}

// Navigate records target.
func (r *Recorder) Navigate(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	return nil
}

// Targets returns a copy of the recorded destinations.
func (r *Recorder) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.targets))
	copy(out, r.targets)
	return out
}

// Last returns the most recent destination.
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.targets) == 0 {
		return "", false
	}
	return r.targets[len(r.targets)-1], true
}

// Redirect answers an HTTP request with a redirect to the target. The zero
// status defaults to 303 See Other so a POSTed activation becomes a GET.
type Redirect struct {
	W      http.ResponseWriter
	R      *http.Request
	Status int

	mu   sync.Mutex
	done bool
}

// ErrRedirectWritten is returned when a Redirect navigator is used twice.
var ErrRedirectWritten = errors.New("navigation: redirect already written")

// Navigate writes the redirect response.
func (n *Redirect) Navigate(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.W == nil || n.R == nil {
		return errors.New("navigation: redirect needs a response writer and request")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.done {
		return ErrRedirectWritten
	}
	status := n.Status
	if status == 0 {
		status = http.StatusSeeOther
	}
	http.Redirect(n.W, n.R, target, status)
	n.done = true
	return nil
}

// Writer prints each destination on its own line, for terminal use.
type Writer struct {
	Out io.Writer
}

// Navigate writes target to Out.
func (w Writer) Navigate(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.Out == nil {
		return errors.New("navigation: writer output is nil")
	}
	if _, err := fmt.Fprintln(w.Out, target); err != nil {
		return fmt.Errorf("navigation: write target: %w", err)
	}
	return nil
}
