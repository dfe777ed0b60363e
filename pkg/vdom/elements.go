package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates an element from loosely typed arguments.
// Arguments can be: nil, Node, []Node, string (shorthand for Text).
func createElement(tag string, args []any) *ElementNode {
	children := make([]Node, 0, len(args))

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Node:
			children = append(children, v)
		case []Node:
			children = append(children, v...)
		case []*ElementNode:
			for _, c := range v {
				children = append(children, c)
			}
		case string:
			children = append(children, Text(v))
		}
	}

	return Element(tag, children...)
}

// Document structure

func Html(args ...any) *ElementNode { return createElement("html", args) }
func Head(args ...any) *ElementNode { return createElement("head", args) }
func Body(args ...any) *ElementNode { return createElement("body", args) }

// Sectioning elements

func Header(args ...any) *ElementNode  { return createElement("header", args) }
func Footer(args ...any) *ElementNode  { return createElement("footer", args) }
func Main(args ...any) *ElementNode    { return createElement("main", args) }
func Nav(args ...any) *ElementNode     { return createElement("nav", args) }
func Section(args ...any) *ElementNode { return createElement("section", args) }
func Article(args ...any) *ElementNode { return createElement("article", args) }
func Aside(args ...any) *ElementNode   { return createElement("aside", args) }
func H1(args ...any) *ElementNode      { return createElement("h1", args) }
func H2(args ...any) *ElementNode      { return createElement("h2", args) }
func H3(args ...any) *ElementNode      { return createElement("h3", args) }
func H4(args ...any) *ElementNode      { return createElement("h4", args) }
func H5(args ...any) *ElementNode      { return createElement("h5", args) }
func H6(args ...any) *ElementNode      { return createElement("h6", args) }

// Text content elements

func Div(args ...any) *ElementNode        { return createElement("div", args) }
func P(args ...any) *ElementNode          { return createElement("p", args) }
func Span(args ...any) *ElementNode       { return createElement("span", args) }
func Pre(args ...any) *ElementNode        { return createElement("pre", args) }
func Blockquote(args ...any) *ElementNode { return createElement("blockquote", args) }
func Ul(args ...any) *ElementNode         { return createElement("ul", args) }
func Ol(args ...any) *ElementNode         { return createElement("ol", args) }
func Li(args ...any) *ElementNode         { return createElement("li", args) }
func Hr(args ...any) *ElementNode         { return createElement("hr", args) }

// Inline text semantics

func A(args ...any) *ElementNode      { return createElement("a", args) }
func Strong(args ...any) *ElementNode { return createElement("strong", args) }
func Em(args ...any) *ElementNode     { return createElement("em", args) }
func Small(args ...any) *ElementNode  { return createElement("small", args) }
func Code(args ...any) *ElementNode   { return createElement("code", args) }
func Br(args ...any) *ElementNode     { return createElement("br", args) }

// Table elements

func Table(args ...any) *ElementNode { return createElement("table", args) }
func Thead(args ...any) *ElementNode { return createElement("thead", args) }
func Tbody(args ...any) *ElementNode { return createElement("tbody", args) }
func Tr(args ...any) *ElementNode    { return createElement("tr", args) }
func Th(args ...any) *ElementNode    { return createElement("th", args) }
func Td(args ...any) *ElementNode    { return createElement("td", args) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *ElementNode {
	return createElement(tag, args)
}
