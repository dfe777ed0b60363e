package vdom

import "fmt"

// Empty returns the node that represents nothing mounted.
func Empty() Node {
	return EmptyNode{}
}

// Text creates a text node.
func Text(content string) TextNode {
	return TextNode{content: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) TextNode {
	return Text(fmt.Sprintf(format, args...))
}

// Element creates an element node with the given tag and children.
// The children slice is copied. Nil and Empty children are skipped, so
// every position in an element maps to exactly one live child.
func Element(tag string, children ...Node) *ElementNode {
	node := &ElementNode{
		tag:      tag,
		children: make([]Node, 0, len(children)),
	}

	for _, child := range children {
		if IsEmpty(child) {
			continue
		}
		node.children = append(node.children, child)
	}

	return node
}

// If returns the node if condition is true, Empty otherwise.
func If(condition bool, node Node) Node {
	if condition {
		return node
	}
	return EmptyNode{}
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse Node) Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Map builds one node per item. Items mapped to Empty are dropped when the
// result is passed to Element.
func Map[T any](items []T, fn func(T) Node) []Node {
	out := make([]Node, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// Equal reports whether a and b describe the same tree.
func Equal(a, b Node) bool {
	a, b = normalize(a), normalize(b)
	switch av := a.(type) {
	case EmptyNode:
		return b.Kind() == KindEmpty
	case TextNode:
		bv, ok := b.(TextNode)
		return ok && av.content == bv.content
	case *ElementNode:
		bv, ok := b.(*ElementNode)
		if !ok || av.tag != bv.tag || len(av.children) != len(bv.children) {
			return false
		}
		if av == bv {
			return true
		}
		for i := range av.children {
			if !Equal(av.children[i], bv.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Count returns the number of Element and Text nodes in the tree.
func Count(n Node) int {
	total := 0
	walk(n, func(Node, int) { total++ })
	return total
}

// Depth returns the height of the tree: 0 for Empty, 1 for a leaf.
func Depth(n Node) int {
	max := 0
	walk(n, func(_ Node, d int) {
		if d > max {
			max = d
		}
	})
	return max
}

// walk visits every non-empty node in preorder with its depth (root = 1).
func walk(n Node, visit func(Node, int)) {
	type item struct {
		node  Node
		depth int
	}
	n = normalize(n)
	if n.Kind() == KindEmpty {
		return
	}
	stack := []item{{n, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(it.node, it.depth)
		if el, ok := it.node.(*ElementNode); ok {
			for i := len(el.children) - 1; i >= 0; i-- {
				stack = append(stack, item{el.children[i], it.depth + 1})
			}
		}
	}
}
