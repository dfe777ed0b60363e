// Package render serializes virtual trees to HTML.
//
// It is used to inspect what a mount point currently shows: the server
// renders the live graph of every mount through it, and the CLI prints the
// result after each pass.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// Text is HTML-escaped. Void elements (br, hr, img, ...) have no closing
// tag. An Empty tree renders as the empty string.
package render
