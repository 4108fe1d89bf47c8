package bootstrap

import (
	"encoding/json"
	"fmt"
	"html"

	"github.com/goliatone/go-paramform/pkg/params"
)

// EnvelopeParamsKey is the key Envelope uses for the parameter object.
const EnvelopeParamsKey = "params"

// FlashMessage is a categorized one-off notice carried to the page.
type FlashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Envelope is the page-level payload a server embeds alongside the
// parameters. Read it back with WithPayloadKey(EnvelopeParamsKey).
type Envelope struct {
	Params        params.Set        `json:"params"`
	Locale        string            `json:"locale,omitempty"`
	LanguagePack  string            `json:"language_pack,omitempty"`
	FlashMessages []FlashMessage    `json:"flash_messages,omitempty"`
	Conf          map[string]string `json:"conf,omitempty"`
}

// Encode returns the JSON text for the envelope, ready to be used as the
// attribute value.
func Encode(envelope Envelope) (string, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("bootstrap: encode envelope: %w", err)
	}
	return string(payload), nil
}

// DecodeEnvelope parses an attribute value written by Encode.
func DecodeEnvelope(raw string) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return Envelope{}, &ParseError{Attribute: DefaultAttribute, Reason: "invalid envelope", Err: err}
	}
	return envelope, nil
}

// Attribute renders a complete, escaped attribute (name="value") for a flat
// parameter payload.
func Attribute(name string, set params.Set) (string, error) {
	payload, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("bootstrap: encode parameters: %w", err)
	}
	if name == "" {
		name = DefaultAttribute
	}
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(string(payload))), nil
}
