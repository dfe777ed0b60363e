package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

var (
	// ErrInvalidHandle is returned for a handle the graph never issued or
	// has already released.
	ErrInvalidHandle = errors.New("host: invalid handle")

	// ErrIndexOutOfRange is returned when a child index does not exist.
	ErrIndexOutOfRange = errors.New("host: child index out of range")

	// ErrNotContainer is returned when a text node is used as a parent.
	ErrNotContainer = errors.New("host: text nodes cannot have children")

	// ErrCycle is returned when a node would become its own descendant.
	ErrCycle = errors.New("host: node cannot contain itself")

	// ErrHandleLimit is returned when the handle table is full.
	ErrHandleLimit = errors.New("host: handle limit reached")
)

type node struct {
	kind     vdom.VKind
	tag      string
	text     string
	parent   *node
	children []*node
}

func (n *node) indexOf(child *node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

func (n *node) contains(other *node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Option configures a Graph.
type Option func(*Graph)

// WithRootTag sets the tag of the document root (default "body").
func WithRootTag(tag string) Option {
	return func(g *Graph) {
		g.rootTag = tag
	}
}

// WithHandleLimit caps the number of live handles (0 = unlimited).
func WithHandleLimit(n int) Option {
	return func(g *Graph) {
		g.limit = n
	}
}

// Graph is an in-memory node graph that implements vdom.Sink.
//
// Every call that yields a node (CreateElement, CreateText, ChildAt and
// Query) issues a fresh handle from a monotonically increasing counter, so
// two graphs that see the same call sequence hand out the same handles.
// Handles stay valid until ClearHandles releases them.
//
// Graph is safe for concurrent use.
type Graph struct {
	mu      sync.RWMutex
	doc     *node
	handles map[vdom.Handle]*node
	next    vdom.Handle
	rootTag string
	limit   int
}

var _ vdom.Sink = (*Graph)(nil)

// New creates a graph holding a single, empty document root.
func New(opts ...Option) *Graph {
	g := &Graph{
		handles: make(map[vdom.Handle]*node),
		rootTag: "body",
	}
	for _, opt := range opts {
		opt(g)
	}
	g.doc = &node{kind: vdom.KindElement, tag: g.rootTag}
	return g
}

// issue must be called with mu held.
func (g *Graph) issue(n *node) (vdom.Handle, error) {
	if g.limit > 0 && len(g.handles) >= g.limit {
		return 0, ErrHandleLimit
	}
	g.next++
	g.handles[g.next] = n
	return g.next, nil
}

// lookup must be called with mu held.
func (g *Graph) lookup(h vdom.Handle) (*node, error) {
	n, ok := g.handles[h]
	if !ok {
		return nil, fmt.Errorf("%w: #%d", ErrInvalidHandle, h)
	}
	return n, nil
}

func (g *Graph) container(h vdom.Handle) (*node, error) {
	n, err := g.lookup(h)
	if err != nil {
		return nil, err
	}
	if n.kind != vdom.KindElement {
		return nil, fmt.Errorf("%w: #%d", ErrNotContainer, h)
	}
	return n, nil
}

// Query returns a new handle to the first node, in document order, whose
// tag matches. The document root itself is a candidate.
func (g *Graph) Query(tag string) (vdom.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	stack := []*node{g.doc}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.kind == vdom.KindElement && n.tag == tag {
			return g.issue(n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return 0, fmt.Errorf("host: no node matches %q", tag)
}

// Root returns a new handle to the document root.
func (g *Graph) Root() (vdom.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issue(g.doc)
}

// CreateElement implements vdom.Sink.
func (g *Graph) CreateElement(tag string) (vdom.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issue(&node{kind: vdom.KindElement, tag: tag})
}

// CreateText implements vdom.Sink.
func (g *Graph) CreateText(content string) (vdom.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issue(&node{kind: vdom.KindText, text: content})
}

// Append implements vdom.Sink. An attached child is moved.
func (g *Graph) Append(parent, child vdom.Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.container(parent)
	if err != nil {
		return err
	}
	c, err := g.lookup(child)
	if err != nil {
		return err
	}
	if c.contains(p) {
		return ErrCycle
	}

	c.detach()
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

// RemoveChildAt implements vdom.Sink.
func (g *Graph) RemoveChildAt(parent vdom.Handle, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.container(parent)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.children) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.children))
	}

	p.children[index].detach()
	return nil
}

// ReplaceChildAt implements vdom.Sink. An attached replacement is moved.
func (g *Graph) ReplaceChildAt(parent vdom.Handle, index int, child vdom.Handle) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.container(parent)
	if err != nil {
		return err
	}
	c, err := g.lookup(child)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.children) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.children))
	}
	old := p.children[index]
	if old == c {
		return nil
	}
	if c.contains(p) {
		return ErrCycle
	}

	c.detach()
	// Detaching c may have shifted old within p.
	index = p.indexOf(old)
	old.parent = nil
	c.parent = p
	p.children[index] = c
	return nil
}

// ChildAt implements vdom.Sink.
func (g *Graph) ChildAt(parent vdom.Handle, index int) (vdom.Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.container(parent)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(p.children) {
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.children))
	}
	return g.issue(p.children[index])
}

// Len returns the number of children of the node behind h.
func (g *Graph) Len(h vdom.Handle) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, err := g.lookup(h)
	if err != nil {
		return 0, err
	}
	return len(n.children), nil
}

// Handles returns the number of live handles.
func (g *Graph) Handles() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.handles)
}

// LastHandle returns the most recently issued handle.
func (g *Graph) LastHandle() vdom.Handle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.next
}

// ClearHandles releases every handle except keep. Nodes are not affected
// and the counter keeps increasing, so released handles are never reused.
func (g *Graph) ClearHandles(keep ...vdom.Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := make(map[vdom.Handle]*node, len(keep))
	for _, h := range keep {
		if n, ok := g.handles[h]; ok {
			kept[h] = n
		}
	}
	g.handles = kept
}

// Snapshot converts the live subtree behind h back into a virtual tree.
func (g *Graph) Snapshot(h vdom.Handle) (vdom.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, err := g.lookup(h)
	if err != nil {
		return nil, err
	}
	return toVNode(n), nil
}

// Document returns the whole document as a virtual tree.
func (g *Graph) Document() vdom.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return toVNode(g.doc)
}

func toVNode(n *node) vdom.Node {
	if n.kind == vdom.KindText {
		return vdom.Text(n.text)
	}
	children := make([]vdom.Node, len(n.children))
	for i, c := range n.children {
		children[i] = toVNode(c)
	}
	return vdom.Element(n.tag, children...)
}
