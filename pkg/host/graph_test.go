package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

func mustRoot(t *testing.T, g *Graph) vdom.Handle {
	t.Helper()
	root, err := g.Root()
	require.NoError(t, err)
	return root
}

func TestGraphHandlesAreSequential(t *testing.T) {
	g := New()
	assert.Equal(t, vdom.Handle(1), mustRoot(t, g))

	div, err := g.CreateElement("div")
	require.NoError(t, err)
	text, err := g.CreateText("hi")
	require.NoError(t, err)
	assert.Equal(t, vdom.Handle(2), div)
	assert.Equal(t, vdom.Handle(3), text)

	require.NoError(t, g.Append(div, text))
	require.NoError(t, g.Append(1, div))

	// ChildAt always issues a fresh handle, even for a node that has one.
	again, err := g.ChildAt(1, 0)
	require.NoError(t, err)
	assert.Equal(t, vdom.Handle(4), again)
	assert.Equal(t, vdom.Handle(4), g.LastHandle())
	assert.Equal(t, 4, g.Handles())
}

func TestGraphDocument(t *testing.T) {
	g := New(WithRootTag("main"))
	root := mustRoot(t, g)

	ul, _ := g.CreateElement("ul")
	for _, s := range []string{"a", "b"} {
		li, _ := g.CreateElement("li")
		txt, _ := g.CreateText(s)
		require.NoError(t, g.Append(li, txt))
		require.NoError(t, g.Append(ul, li))
	}
	require.NoError(t, g.Append(root, ul))

	want := vdom.Element("main", vdom.Ul(vdom.Li("a"), vdom.Li("b")))
	assert.True(t, vdom.Equal(want, g.Document()))

	sub, err := g.Snapshot(ul)
	require.NoError(t, err)
	assert.True(t, vdom.Equal(vdom.Ul(vdom.Li("a"), vdom.Li("b")), sub))

	n, err := g.Len(ul)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGraphRemoveAndReplace(t *testing.T) {
	g := New()
	root := mustRoot(t, g)

	var kids []vdom.Handle
	for _, s := range []string{"a", "b", "c"} {
		h, _ := g.CreateText(s)
		require.NoError(t, g.Append(root, h))
		kids = append(kids, h)
	}

	require.NoError(t, g.RemoveChildAt(root, 1))
	assert.True(t, vdom.Equal(vdom.Body(vdom.Text("a"), vdom.Text("c")), g.Document()))

	x, _ := g.CreateText("x")
	require.NoError(t, g.ReplaceChildAt(root, 1, x))
	assert.True(t, vdom.Equal(vdom.Body(vdom.Text("a"), vdom.Text("x")), g.Document()))

	// The removed node's handle survives and it can be re-attached.
	require.NoError(t, g.Append(root, kids[1]))
	assert.True(t, vdom.Equal(vdom.Body(vdom.Text("a"), vdom.Text("x"), vdom.Text("b")), g.Document()))
}

func TestGraphMoveSemantics(t *testing.T) {
	g := New()
	root := mustRoot(t, g)
	a, _ := g.CreateElement("a")
	b, _ := g.CreateElement("b")
	c, _ := g.CreateElement("c")
	require.NoError(t, g.Append(root, a))
	require.NoError(t, g.Append(root, b))
	require.NoError(t, g.Append(root, c))

	// Replacing index 2 with a, which sits at index 0, shifts c to index 1.
	require.NoError(t, g.ReplaceChildAt(root, 2, a))
	assert.True(t, vdom.Equal(vdom.Body(vdom.Element("b"), vdom.Element("a")), g.Document()))

	require.NoError(t, g.Append(root, b))
	assert.True(t, vdom.Equal(vdom.Body(vdom.Element("a"), vdom.Element("b")), g.Document()))

	// Replacing a child with itself is a no-op.
	require.NoError(t, g.ReplaceChildAt(root, 0, a))
	assert.True(t, vdom.Equal(vdom.Body(vdom.Element("a"), vdom.Element("b")), g.Document()))
}

func TestGraphErrors(t *testing.T) {
	g := New()
	root := mustRoot(t, g)
	text, _ := g.CreateText("t")
	div, _ := g.CreateElement("div")
	require.NoError(t, g.Append(root, div))

	_, err := g.ChildAt(99, 0)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, err = g.ChildAt(root, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.ErrorIs(t, g.RemoveChildAt(root, -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, g.ReplaceChildAt(root, 5, text), ErrIndexOutOfRange)
	assert.ErrorIs(t, g.Append(text, div), ErrNotContainer)
	assert.ErrorIs(t, g.Append(div, root), ErrCycle)
	assert.ErrorIs(t, g.Append(div, div), ErrCycle)
	assert.ErrorIs(t, g.Append(root, 42), ErrInvalidHandle)

	_, err = g.Snapshot(1234)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestGraphHandleLimit(t *testing.T) {
	g := New(WithHandleLimit(2))
	mustRoot(t, g)
	_, err := g.CreateElement("div")
	require.NoError(t, err)
	_, err = g.CreateElement("div")
	assert.ErrorIs(t, err, ErrHandleLimit)

	g.ClearHandles(1)
	h, err := g.CreateElement("div")
	require.NoError(t, err)
	assert.Equal(t, vdom.Handle(3), h)
}

func TestGraphClearHandles(t *testing.T) {
	g := New()
	root := mustRoot(t, g)
	div, _ := g.CreateElement("div")
	require.NoError(t, g.Append(root, div))

	g.ClearHandles(root, 77)
	assert.Equal(t, 1, g.Handles())

	_, err := g.Len(div)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	// The node itself is untouched and reachable again through a new handle.
	h, err := g.ChildAt(root, 0)
	require.NoError(t, err)
	assert.Equal(t, vdom.Handle(3), h)
	assert.True(t, vdom.Equal(vdom.Body(vdom.Div()), g.Document()))
}

func TestGraphQuery(t *testing.T) {
	g := New()
	root := mustRoot(t, g)
	outer, _ := g.CreateElement("section")
	inner, _ := g.CreateElement("p")
	second, _ := g.CreateElement("p")
	txt, _ := g.CreateText("p")
	require.NoError(t, g.Append(outer, inner))
	require.NoError(t, g.Append(root, outer))
	require.NoError(t, g.Append(root, second))
	require.NoError(t, g.Append(second, txt))

	h, err := g.Query("p")
	require.NoError(t, err)
	n, err := g.Len(h)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "first p in document order is the empty one")

	h, err = g.Query("body")
	require.NoError(t, err)
	n, err = g.Len(h)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = g.Query("table")
	assert.Error(t, err)
}

func TestGraphReconcileEndToEnd(t *testing.T) {
	g := New()
	session := vdom.NewSession(g, mustRoot(t, g))

	trees := []vdom.Node{
		vdom.Div(vdom.H1("1"), vdom.H2("2"), vdom.H3("3")),
		vdom.Div(vdom.H1("3"), vdom.H2("2"), vdom.H3("1")),
		vdom.Div(vdom.Text("only")),
		vdom.P("swap"),
		vdom.Empty(),
	}
	for _, tree := range trees {
		require.NoError(t, session.Render(tree))
		want := vdom.Body()
		if !vdom.IsEmpty(tree) {
			want = vdom.Body(tree)
		}
		assert.True(t, vdom.Equal(want, g.Document()))
	}
}
