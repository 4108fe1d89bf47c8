// Package mount is the boundary between a page and the parameter form. It
// reads the bootstrap payload, builds the component and renders it, turning
// bootstrap and render failures into a visible error state instead of
// returning them.
package mount
