package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer turns virtual trees into HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(node vdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node vdom.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderChildren renders the children of an element without the element
// itself, which is how a mount root's contents are shown.
func (r *Renderer) RenderChildren(w io.Writer, node vdom.Node) error {
	el, ok := node.(*vdom.ElementNode)
	if !ok || el == nil {
		return r.renderNode(w, node, 0)
	}
	for i := 0; i < el.Len(); i++ {
		if err := r.renderNode(w, el.Child(i), 0); err != nil {
			return err
		}
	}
	return nil
}

// String renders a tree, returning the empty string on error.
func String(node vdom.Node) string {
	html, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node vdom.Node, depth int) error {
	switch n := node.(type) {
	case nil, vdom.EmptyNode:
		return nil
	case vdom.TextNode:
		_, err := io.WriteString(w, escapeHTML(n.Content()))
		return err
	case *vdom.ElementNode:
		if n == nil {
			return nil
		}
		return r.renderElement(w, n, depth)
	default:
		return fmt.Errorf("render: unknown node kind: %s", node.Kind())
	}
}

// renderElement renders an HTML element and its children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.ElementNode, depth int) error {
	tag := node.Tag()

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s>", tag); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	hasBlockChildren := node.Len() > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		io.WriteString(w, "\n")
	}

	for i := 0; i < node.Len(); i++ {
		child := node.Child(i)
		if r.config.Pretty && hasBlockChildren && child.Kind() == vdom.KindText {
			r.writeIndent(w, depth+1)
		}
		if err := r.renderNode(w, child, depth+1); err != nil {
			return err
		}
		if r.config.Pretty && hasBlockChildren && child.Kind() == vdom.KindText {
			io.WriteString(w, "\n")
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}

	return nil
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
