package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindEmpty   VKind = iota // Nothing mounted
	KindElement              // <div>, <h1>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a virtual tree node. The set of implementations is closed:
// EmptyNode, *ElementNode and TextNode. A nil Node is treated as EmptyNode.
//
// Nodes are immutable once built. Reconciliation only reads them.
type Node interface {
	Kind() VKind
	node()
}

// EmptyNode represents "nothing mounted here".
type EmptyNode struct{}

// Kind implements Node.
func (EmptyNode) Kind() VKind { return KindEmpty }

func (EmptyNode) node() {}

// ElementNode is a structural node identified by its tag.
// Children are matched against a previous tree by position only.
type ElementNode struct {
	tag      string
	children []Node
}

// Kind implements Node.
func (*ElementNode) Kind() VKind { return KindElement }

func (*ElementNode) node() {}

// Tag returns the element tag name.
func (e *ElementNode) Tag() string {
	return e.tag
}

// Len returns the number of children.
func (e *ElementNode) Len() int {
	return len(e.children)
}

// Child returns the child at index i.
func (e *ElementNode) Child(i int) Node {
	return e.children[i]
}

// Children returns a copy of the child sequence.
func (e *ElementNode) Children() []Node {
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

// TextNode is a leaf of literal text.
type TextNode struct {
	content string
}

// Kind implements Node.
func (TextNode) Kind() VKind { return KindText }

func (TextNode) node() {}

// Content returns the text content.
func (t TextNode) Content() string {
	return t.content
}

// normalize maps nil (including a nil *ElementNode) to EmptyNode so
// callers can switch exhaustively.
func normalize(n Node) Node {
	if n == nil {
		return EmptyNode{}
	}
	if e, ok := n.(*ElementNode); ok && e == nil {
		return EmptyNode{}
	}
	return n
}

// IsEmpty reports whether n is nil or EmptyNode.
func IsEmpty(n Node) bool {
	return normalize(n).Kind() == KindEmpty
}
