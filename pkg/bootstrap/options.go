package bootstrap

import "strings"

const (
	// DefaultElementID is the id of the mount element.
	DefaultElementID = "js-add-slice-container"
	// DefaultAttribute carries the JSON payload on the mount element.
	DefaultAttribute = "data-bootstrap"
)

// Option configures the reader.
type Option func(*config)

type config struct {
	elementID  string
	attribute  string
	payloadKey string
	strict     bool
}

func newConfig(options ...Option) config {
	cfg := config{
		elementID: DefaultElementID,
		attribute: DefaultAttribute,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithElementID overrides the mount element id.
func WithElementID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.elementID = strings.TrimPrefix(trimmed, "#")
		}
	}
}

// WithAttribute overrides the attribute holding the payload.
func WithAttribute(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.attribute = strings.ToLower(trimmed)
		}
	}
}

// WithPayloadKey reads the parameters from a nested object of an envelope
// payload (for example "params") instead of the top-level object.
func WithPayloadKey(key string) Option {
	return func(cfg *config) {
		cfg.payloadKey = strings.TrimSpace(key)
	}
}

// WithStrict rejects nested objects and arrays at the parse boundary. By
// default they are carried through so the form reports them when rendering.
func WithStrict() Option {
	return func(cfg *config) {
		cfg.strict = true
	}
}
