package vdom

import "fmt"

// Reconciler transforms what is mounted at one position of the live graph
// from a previous virtual tree to a next one, issuing the Sink calls that
// make the difference.
//
// Children are matched by position. The walk is top-down and left-to-right,
// and uses an explicit work stack so tree depth is bounded by memory, not
// by the goroutine stack.
type Reconciler struct {
	sink Sink
}

// NewReconciler creates a reconciler that mutates through sink.
func NewReconciler(sink Sink) *Reconciler {
	return &Reconciler{sink: sink}
}

// Reconcile makes the child of parent at index match next, given that it
// currently matches prev. For an Empty prev the new subtree is appended to
// parent and index is ignored.
//
// The first Sink error aborts the pass and is returned as a *HostError.
// The live graph may then be partially mutated.
func (r *Reconciler) Reconcile(parent Handle, index int, next, prev Node) error {
	if r == nil || r.sink == nil {
		return ErrNotMounted
	}
	w := walker{r: r}
	w.push(step{
		at:    &anchor{root: parent},
		index: index,
		next:  next,
		prev:  prev,
	})
	return w.run()
}

// anchor locates a container node in the live graph. The mount anchor
// holds the root handle; every other anchor is the child at index of its
// up anchor and is re-fetched through ChildAt each time it is resolved.
type anchor struct {
	up    *anchor
	root  Handle
	index int
}

type stepKind uint8

const (
	stepPatch stepKind = iota // reconcile one position
	stepTail                  // append or remove trailing children
)

type step struct {
	kind  stepKind
	at    *anchor // container holding the position being reconciled
	index int
	next  Node
	prev  Node

	nextEl *ElementNode // stepTail only
	prevEl *ElementNode // stepTail only
}

type walker struct {
	r     *Reconciler
	stack []step
}

func (w *walker) push(s step) {
	w.stack = append(w.stack, s)
}

func (w *walker) run() error {
	for len(w.stack) > 0 {
		s := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]

		var err error
		switch s.kind {
		case stepPatch:
			err = w.patch(s)
		case stepTail:
			err = w.tail(s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// patch applies the old-kind x new-kind decision table to one position.
func (w *walker) patch(s step) error {
	next, prev := normalize(s.next), normalize(s.prev)
	if next == prev {
		// Same immutable value, including the same *ElementNode.
		return nil
	}

	switch p := prev.(type) {
	case EmptyNode:
		if next.Kind() == KindEmpty {
			return nil
		}
		return w.mount(s, next)

	case TextNode:
		switch n := next.(type) {
		case EmptyNode:
			return w.remove(s)
		case TextNode:
			if n.content == p.content {
				return nil
			}
			return w.replace(s, next)
		case *ElementNode:
			return w.replace(s, next)
		}

	case *ElementNode:
		switch n := next.(type) {
		case EmptyNode:
			return w.remove(s)
		case TextNode:
			return w.replace(s, next)
		case *ElementNode:
			if n.tag != p.tag {
				return w.replace(s, next)
			}
			w.children(s, p, n)
			return nil
		}
	}

	return fmt.Errorf("vdom: unreachable node pair %s/%s", prev.Kind(), next.Kind())
}

// children schedules the positional diff of two same-tag elements. The
// trailing append/remove step is pushed first so it runs after every
// shared position, depth-first, has been reconciled.
func (w *walker) children(s step, prev, next *ElementNode) {
	container := &anchor{up: s.at, index: s.index}
	oldLen, newLen := len(prev.children), len(next.children)
	minLen := min(oldLen, newLen)

	if oldLen != newLen {
		w.push(step{
			kind:   stepTail,
			at:     container,
			nextEl: next,
			prevEl: prev,
		})
	}

	for i := minLen - 1; i >= 0; i-- {
		if next.children[i] == prev.children[i] {
			continue
		}
		w.push(step{
			at:    container,
			index: i,
			next:  next.children[i],
			prev:  prev.children[i],
		})
	}
}

// tail appends the extra children of next, or removes the extra children
// of prev. Removal runs from the last index down so every index still
// names the logical child it was computed for.
func (w *walker) tail(s step) error {
	container, err := w.resolve(s.at)
	if err != nil {
		return err
	}

	oldLen, newLen := len(s.prevEl.children), len(s.nextEl.children)

	for i := oldLen; i < newLen; i++ {
		child, err := w.build(s.nextEl.children[i])
		if err != nil {
			return err
		}
		if err := w.r.sink.Append(container, child); err != nil {
			return hostError(OpAppend, err)
		}
	}

	for i := oldLen - 1; i >= newLen; i-- {
		if err := w.r.sink.RemoveChildAt(container, i); err != nil {
			return hostError(OpRemoveChild, err)
		}
	}

	return nil
}

func (w *walker) mount(s step, next Node) error {
	parent, err := w.resolve(s.at)
	if err != nil {
		return err
	}
	child, err := w.build(next)
	if err != nil {
		return err
	}
	if err := w.r.sink.Append(parent, child); err != nil {
		return hostError(OpAppend, err)
	}
	return nil
}

func (w *walker) remove(s step) error {
	parent, err := w.resolve(s.at)
	if err != nil {
		return err
	}
	if err := w.r.sink.RemoveChildAt(parent, s.index); err != nil {
		return hostError(OpRemoveChild, err)
	}
	return nil
}

func (w *walker) replace(s step, next Node) error {
	parent, err := w.resolve(s.at)
	if err != nil {
		return err
	}
	child, err := w.build(next)
	if err != nil {
		return err
	}
	if err := w.r.sink.ReplaceChildAt(parent, s.index, child); err != nil {
		return hostError(OpReplaceChild, err)
	}
	return nil
}

// resolve re-fetches the live handle of a container, walking from the
// mount root down through ChildAt.
func (w *walker) resolve(a *anchor) (Handle, error) {
	var path []int
	for a.up != nil {
		path = append(path, a.index)
		a = a.up
	}

	h := a.root
	for i := len(path) - 1; i >= 0; i-- {
		child, err := w.r.sink.ChildAt(h, path[i])
		if err != nil {
			return 0, hostError(OpChildAt, err)
		}
		h = child
	}
	return h, nil
}

// built is one node created during build.
type built struct {
	handle   Handle
	children []int
}

// build materializes a detached subtree and returns the handle of its root.
// Every node is created first, in preorder; the appends follow bottom-up,
// so each node is complete before it is attached to its parent.
func (w *walker) build(root Node) (Handle, error) {
	type pending struct {
		node   Node
		parent int
	}

	var nodes []built
	stack := []pending{{node: root, parent: -1}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var (
			h   Handle
			err error
		)
		switch n := normalize(p.node).(type) {
		case EmptyNode:
			continue
		case TextNode:
			h, err = w.r.sink.CreateText(n.content)
			if err != nil {
				return 0, hostError(OpCreateText, err)
			}
		case *ElementNode:
			h, err = w.r.sink.CreateElement(n.tag)
			if err != nil {
				return 0, hostError(OpCreateElement, err)
			}
			for i := len(n.children) - 1; i >= 0; i-- {
				stack = append(stack, pending{node: n.children[i], parent: len(nodes)})
			}
		}

		if p.parent >= 0 {
			nodes[p.parent].children = append(nodes[p.parent].children, len(nodes))
		}
		nodes = append(nodes, built{handle: h})
	}

	if len(nodes) == 0 {
		return 0, fmt.Errorf("vdom: cannot build an empty node")
	}

	// Post-order: a node is appended once all of its children are.
	type cursor struct {
		node int
		next int
	}
	path := []cursor{{node: 0}}
	for len(path) > 0 {
		top := &path[len(path)-1]
		n := nodes[top.node]
		if top.next < len(n.children) {
			child := n.children[top.next]
			top.next++
			path = append(path, cursor{node: child})
			continue
		}

		path = path[:len(path)-1]
		if len(path) > 0 {
			parent := nodes[path[len(path)-1].node].handle
			if err := w.r.sink.Append(parent, n.handle); err != nil {
				return 0, hostError(OpAppend, err)
			}
		}
	}

	return nodes[0].handle, nil
}
