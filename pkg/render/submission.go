package render

import (
	"fmt"
	"sort"
	"strings"
)

// ActivationField is the hidden input carrying the one-shot activation token.
const ActivationField = "activation_token"

// HiddenField is a hidden input emitted inside the form.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying a CSRF token under the name
// the backend expects ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// ActivationToken constructs the hidden field the server checks before it
// redirects, so a form post navigates at most once.
func ActivationToken(token string) HiddenField {
	return Hidden(ActivationField, token)
}

// NormalizeHidden drops unnamed fields, lets later fields win on name
// collisions and sorts the result by name.
func NormalizeHidden(fields ...HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}
