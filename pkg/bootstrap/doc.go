// Package bootstrap reads the parameter payload a page embeds on its mount
// element. The page is parsed with golang.org/x/net/html, the element is
// located by id and its data attribute is decoded into a params.Set.
//
// Reading never mutates the document. Failures are reported as
// *ElementNotFoundError or *ParseError so the mount boundary can turn them
// into a visible error state.
package bootstrap
