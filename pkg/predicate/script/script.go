// Package script evaluates enable rules written in JavaScript with goja. The
// rule sees a frozen `params` object holding the parameter values and must
// evaluate to a truthy value, for example:
//
//	params.script !== "" && Number(params.retries) > 0
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/predicate"
)

// DefaultTimeout bounds a single rule evaluation.
const DefaultTimeout = 250 * time.Millisecond

// Option configures a script predicate.
type Option func(*Rule)

// WithTimeout overrides DefaultTimeout. Non-positive values disable the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Rule) {
		r.timeout = d
	}
}

// WithLogger logs evaluation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rule) {
		r.logger = logger
	}
}

// Rule is a compiled JavaScript enable rule. Programs are shared; each
// evaluation runs in a fresh runtime.
type Rule struct {
	program *goja.Program
	source  string
	timeout time.Duration
	logger  *slog.Logger
}

// Compile parses src. Compilation errors surface here rather than at
// evaluation time.
func Compile(src string, options ...Option) (*Rule, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, errors.New("script: rule source is required")
	}
	program, err := goja.Compile("enable-rule.js", "(function(params){ return ("+trimmed+"); })", true)
	if err != nil {
		return nil, fmt.Errorf("script: compile rule: %w", err)
	}
	rule := &Rule{program: program, source: trimmed, timeout: DefaultTimeout}
	for _, opt := range options {
		if opt != nil {
			opt(rule)
		}
	}
	return rule, nil
}

// Eval runs the rule against set.
func (r *Rule) Eval(set params.Set) (bool, error) {
	vm := goja.New()

	if r.timeout > 0 {
		var once sync.Once
		timer := time.AfterFunc(r.timeout, func() {
			once.Do(func() { vm.Interrupt("enable rule timed out") })
		})
		defer timer.Stop()
	}

	value, err := vm.RunProgram(r.program)
	if err != nil {
		return false, fmt.Errorf("script: load rule: %w", err)
	}
	fn, ok := goja.AssertFunction(value)
	if !ok {
		return false, errors.New("script: rule did not compile to a function")
	}

	obj := vm.NewObject()
	for _, entry := range set.Parameters() {
		if err := obj.Set(entry.Key, entry.Value.Interface()); err != nil {
			return false, fmt.Errorf("script: bind %q: %w", entry.Key, err)
		}
	}
	frozen, err := vm.RunString("Object.freeze")
	if err != nil {
		return false, fmt.Errorf("script: freeze params: %w", err)
	}
	if freeze, ok := goja.AssertFunction(frozen); ok {
		if _, err := freeze(goja.Undefined(), obj); err != nil {
			return false, fmt.Errorf("script: freeze params: %w", err)
		}
	}

	result, err := fn(goja.Undefined(), obj)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return false, fmt.Errorf("script: %v", interrupted.Value())
		}
		return false, fmt.Errorf("script: evaluate rule: %w", err)
	}
	return result.ToBoolean(), nil
}

// Predicate compiles src into a predicate.Predicate. Runtime failures keep
// the action disabled.
func Predicate(src string, options ...Option) (predicate.Predicate, error) {
	rule, err := Compile(src, options...)
	if err != nil {
		return nil, err
	}
	return predicate.Func(func(set params.Set) bool {
		ok, err := rule.Eval(set)
		if err != nil {
			if rule.logger != nil {
				rule.logger.Warn("enable script failed", "rule", rule.source, "error", err)
			}
			return false
		}
		return ok
	}), nil
}
