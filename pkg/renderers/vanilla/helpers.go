package vanilla

import (
	"strings"
	"unicode"
)

// controlID derives a stable element id from a parameter key. Characters
// outside [A-Za-z0-9_-] become dashes.
func controlID(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("pf-")
	for _, r := range trimmed {
		if r == '-' || r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	return b.String()
}

// htmlLang turns a locale such as pt_BR into the pt-BR form used by the lang
// attribute.
func htmlLang(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "en"
	}
	return strings.ReplaceAll(locale, "_", "-")
}
