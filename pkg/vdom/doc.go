// Package vdom renders virtual trees onto a live node graph.
//
// A virtual tree is an immutable description of the nodes that should be
// mounted somewhere. Reconciling two trees yields the Sink calls that turn
// what the first one mounted into what the second one describes.
//
// # Core Types
//
// Node is a closed sum of three variants: EmptyNode (nothing mounted),
// *ElementNode (a tag and ordered children) and TextNode (literal text).
// A nil Node behaves as EmptyNode.
//
// # Element API
//
// Trees are built with Element and Text, or with the tag factories:
//
//	Div(
//	    H1(Text("Title")),
//	    P("Content"),
//	)
//
// # Reconciliation
//
// Children are matched by position, never by key. A changed tag or node
// kind replaces the whole subtree; equal text is left alone; same-tag
// elements keep their live node and only their children are reconciled.
// Extra trailing children are removed from the highest index down.
//
// # Sessions
//
// Session holds the tree currently rendered under a mount handle:
//
//	s := vdom.NewSession(sink, root)
//	if err := s.Render(tree); err != nil {
//	    return err
//	}
//
// The current tree only advances when every Sink call of a pass succeeded.
package vdom
