package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-paramform/pkg/params"
)

// Read parses page as HTML and decodes the bootstrap payload of the mount
// element.
func Read(ctx context.Context, page io.Reader, options ...Option) (params.Set, error) {
	if ctx == nil {
		return params.Set{}, errors.New("bootstrap: context is required")
	}
	if err := ctx.Err(); err != nil {
		return params.Set{}, err
	}
	if page == nil {
		return params.Set{}, errors.New("bootstrap: page reader is required")
	}

	doc, err := html.Parse(page)
	if err != nil {
		return params.Set{}, fmt.Errorf("bootstrap: parse document: %w", err)
	}
	return FromNode(doc, options...)
}

// FromNode decodes the payload from an already parsed document.
func FromNode(doc *html.Node, options ...Option) (params.Set, error) {
	cfg := newConfig(options...)

	raw, err := attributeValue(doc, cfg)
	if err != nil {
		return params.Set{}, err
	}
	return decode(raw, cfg)
}

// Decode parses a raw attribute value using the reader options. It is useful
// when the attribute was extracted by other means.
func Decode(raw string, options ...Option) (params.Set, error) {
	return decode(raw, newConfig(options...))
}

// FindElement returns the element whose id attribute equals id, or nil.
func FindElement(doc *html.Node, id string) *html.Node {
	if doc == nil || id == "" {
		return nil
	}
	if doc.Type == html.ElementNode {
		if value, ok := attr(doc, "id"); ok && value == id {
			return doc
		}
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if found := FindElement(child, id); found != nil {
			return found
		}
	}
	return nil
}

func attributeValue(doc *html.Node, cfg config) (string, error) {
	element := FindElement(doc, cfg.elementID)
	if element == nil {
		return "", &ElementNotFoundError{ID: cfg.elementID}
	}

	raw, ok := attr(element, cfg.attribute)
	if !ok {
		return "", &ParseError{Attribute: cfg.attribute, Reason: "attribute missing"}
	}
	return raw, nil
}

func decode(raw string, cfg config) (params.Set, error) {
	if strings.TrimSpace(raw) == "" {
		return params.Set{}, &ParseError{Attribute: cfg.attribute, Reason: "attribute empty"}
	}

	payload := []byte(raw)
	if cfg.payloadKey != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return params.Set{}, &ParseError{Attribute: cfg.attribute, Reason: "invalid JSON", Err: err}
		}
		nested, ok := envelope[cfg.payloadKey]
		if !ok {
			return params.Set{}, &ParseError{
				Attribute: cfg.attribute,
				Reason:    fmt.Sprintf("payload key %q missing", cfg.payloadKey),
			}
		}
		payload = nested
	}

	set, err := params.Decode(payload)
	if err != nil {
		reason := "invalid JSON"
		if errors.Is(err, params.ErrNotObject) {
			reason = "payload is not an object"
		}
		return params.Set{}, &ParseError{Attribute: cfg.attribute, Reason: reason, Err: err}
	}

	if cfg.strict {
		if composites := set.Composites(); len(composites) > 0 {
			return params.Set{}, &ParseError{
				Attribute: cfg.attribute,
				Reason:    fmt.Sprintf("non-scalar values for %s", strings.Join(composites, ", ")),
			}
		}
	}

	return set, nil
}

func attr(node *html.Node, name string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// ReadEnvelope parses page as HTML and decodes the mount element's payload as
// an Envelope. WithPayloadKey is ignored; WithStrict applies to the envelope
// parameters.
func ReadEnvelope(ctx context.Context, page io.Reader, options ...Option) (Envelope, error) {
	if ctx == nil {
		return Envelope{}, errors.New("bootstrap: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Envelope{}, err
	}
	if page == nil {
		return Envelope{}, errors.New("bootstrap: page reader is required")
	}

	doc, err := html.Parse(page)
	if err != nil {
		return Envelope{}, fmt.Errorf("bootstrap: parse document: %w", err)
	}

	cfg := newConfig(options...)
	raw, err := attributeValue(doc, cfg)
	if err != nil {
		return Envelope{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return Envelope{}, &ParseError{Attribute: cfg.attribute, Reason: "attribute empty"}
	}

	envelope, err := DecodeEnvelope(raw)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Attribute = cfg.attribute
		}
		return Envelope{}, err
	}
	if cfg.strict {
		if composites := envelope.Params.Composites(); len(composites) > 0 {
			return Envelope{}, &ParseError{
				Attribute: cfg.attribute,
				Reason:    fmt.Sprintf("non-scalar values for %s", strings.Join(composites, ", ")),
			}
		}
	}
	return envelope, nil
}
