// Package host provides an in-memory node graph that a vdom.Session can
// render into.
//
// Graph mirrors a browser document closely enough to exercise the
// reconciler: elements and text nodes, ordered children, and integer
// handles issued from a table, one fresh handle per node-yielding call.
// Recorder wraps any vdom.Sink and keeps a log of the calls it forwards.
//
//	g := host.New()
//	root, _ := g.Root()
//	rec := host.NewRecorder(g)
//	s := vdom.NewSession(rec, root)
//	_ = s.Render(vdom.Div(vdom.H1("hello")))
//	fmt.Println(rec)
package host
