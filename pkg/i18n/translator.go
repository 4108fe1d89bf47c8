// Package i18n provides the label lookup used by the form: a Translator
// contract, a language-pack Catalog loaded from YAML or JSON files, and a
// Labeler that falls back to a humanized key when no translation exists.
package i18n

import (
	"errors"
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrMissingTranslation is returned when no pack provides the key.
	ErrMissingTranslation = errors.New("i18n: missing translation")
	// ErrMissingTranslator is reported when a Labeler has no translator.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
)

// Translator resolves a key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingHandler decides the label used when a translation is unavailable.
type MissingHandler func(locale, key string, err error) string

// Labeler returns the key → display text function handed to the form. The
// result is sanitized to plain text.
func Labeler(t Translator, locale string, onMissing MissingHandler) func(string) string {
	if onMissing == nil {
		onMissing = func(_ string, key string, _ error) string {
			return Humanize(key)
		}
	}
	return func(key string) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		if t == nil {
			return SanitizeLabel(onMissing(locale, key, ErrMissingTranslator))
		}
		msg, err := t.Translate(locale, key)
		if err != nil || strings.TrimSpace(msg) == "" {
			if err == nil {
				err = ErrMissingTranslation
			}
			return SanitizeLabel(onMissing(locale, key, err))
		}
		return SanitizeLabel(msg)
	}
}

// Humanize turns a parameter key into a readable label:
// "run_date" → "Run date", "retryCount" → "Retry count".
func Humanize(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(key)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	if len(words) == 0 {
		return key
	}
	label := strings.Join(words, " ")
	first := []rune(label)
	first[0] = unicode.ToUpper(first[0])
	return string(first)
}

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// SanitizeLabel strips markup from translated text. Language packs are
// edited by hand and labels are rendered as text, never as HTML.
func SanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	// bluemonday escapes text content; renderers escape again on output.
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(trimmed)))
}
