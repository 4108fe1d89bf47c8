// Package expr evaluates small boolean rules over a parameter set, for example
//
//	script != "" && (dry_run || retries >= 1)
//
// Supported forms: bare identifiers (truthiness), comparisons against string,
// number, bool or null literals (==, !=, <, <=, >, >=), negation with ! or
// not, && / and, || / or, and parentheses.
package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/predicate"
)

// Rule is a compiled expression.
type Rule struct {
	source string
	root   node
}

// Compile parses rule. An empty rule always evaluates to true.
func Compile(rule string) (*Rule, error) {
	trimmed := strings.TrimSpace(rule)
	compiled := &Rule{source: trimmed}
	if trimmed == "" {
		return compiled, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	compiled.root = root
	return compiled, nil
}

// MustCompile panics when the rule does not parse.
func MustCompile(rule string) *Rule {
	compiled, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return compiled
}

// String returns the rule source.
func (r *Rule) String() string {
	return r.source
}

// Eval evaluates the rule against values.
func (r *Rule) Eval(values map[string]any) (bool, error) {
	if r == nil || r.root == nil {
		return true, nil
	}
	return r.root.eval(values)
}

// Predicate compiles rule into a predicate.Predicate. Evaluation errors keep
// the action disabled and are logged when logger is non-nil.
func Predicate(rule string, logger *slog.Logger) (predicate.Predicate, error) {
	compiled, err := Compile(rule)
	if err != nil {
		return nil, err
	}
	return predicate.Func(func(set params.Set) bool {
		ok, err := compiled.Eval(set.Values())
		if err != nil {
			if logger != nil {
				logger.Warn("enable rule failed", "rule", compiled.source, "error", err)
			}
			return false
		}
		return ok
	}), nil
}

type node interface {
	eval(values map[string]any) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) (bool, error) {
	ok, err := n.inner.eval(values)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct{ identifier string }

func (n truthyNode) eval(values map[string]any) (bool, error) {
	value, ok := values[n.identifier]
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type compareNode struct {
	identifier string
	op         tokenKind
	literal    token
}

func (n compareNode) eval(values map[string]any) (bool, error) {
	value := values[n.identifier]

	switch n.literal.kind {
	case tokenNull:
		return n.equality(value == nil)
	case tokenBool:
		got, _ := coerceBool(value)
		return n.equality(got == (n.literal.raw == "true"))
	case tokenNumber:
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("expr: invalid number literal %q", n.literal.raw)
		}
		got, ok := coerceNumber(value)
		if !ok {
			got = 0
		}
		return compareOrdered(n.op, got, want)
	default:
		return compareOrdered(n.op, coerceString(value), n.literal.raw)
	}
}

func (n compareNode) equality(equal bool) (bool, error) {
	switch n.op {
	case tokenEq:
		return equal, nil
	case tokenNeq:
		return !equal, nil
	default:
		return false, fmt.Errorf("expr: operator %s not supported for %s", n.op, n.literal.raw)
	}
}

func compareOrdered[T float64 | string](op tokenKind, got, want T) (bool, error) {
	switch op {
	case tokenEq:
		return got == want, nil
	case tokenNeq:
		return got != want, nil
	case tokenLt:
		return got < want, nil
	case tokenLte:
		return got <= want, nil
	case tokenGt:
		return got > want, nil
	case tokenGte:
		return got >= want, nil
	default:
		return false, fmt.Errorf("expr: unsupported operator %s", op)
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseOr(stream *tokenStream) (node, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (node, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (node, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (node, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("expr: unexpected end of rule")
		}
		return nil, fmt.Errorf("expr: expected parameter name, got %q", stream.tokens[stream.pos].raw)
	}

	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte} {
		if !stream.match(op) {
			continue
		}
		lit, err := stream.literal()
		if err != nil {
			return nil, err
		}
		if op != tokenEq && op != tokenNeq && (lit.kind == tokenNull || lit.kind == tokenBool) {
			return nil, fmt.Errorf("expr: operator %s needs a number or string", op)
		}
		return compareNode{identifier: ident.raw, op: op, literal: lit}, nil
	}

	return truthyNode{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) literal() (token, error) {
	if s.pos >= len(s.tokens) {
		return token{}, errors.New("expr: missing literal")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
		return tok, nil
	case tokenIdentifier:
		// bare words compare as strings
		return token{kind: tokenString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("expr: expected literal, got %q", tok.raw)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}
