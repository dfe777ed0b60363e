package protocol_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vdiff/pkg/host"
	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

type peer struct {
	graph *host.Graph
	root  vdom.Handle
}

func newPeer(t *testing.T) peer {
	t.Helper()
	g := host.New()
	root, err := g.Root()
	require.NoError(t, err)
	return peer{graph: g, root: root}
}

func (p peer) html(t *testing.T) string {
	t.Helper()
	doc, err := p.graph.Snapshot(p.root)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, render.NewRenderer(render.RendererConfig{}).RenderChildren(&sb, doc))
	return sb.String()
}

func trees() []vdom.Node {
	return []vdom.Node{
		vdom.Div(vdom.H1("1"), vdom.H2("2"), vdom.H3("3")),
		vdom.Div(vdom.H1("3"), vdom.H2("2"), vdom.H3("1")),
		vdom.Div(vdom.H1("3"), vdom.P("new"), vdom.Ul(vdom.Li("a"), vdom.Li("b"))),
		vdom.Div(vdom.H1("3")),
		vdom.Empty(),
		vdom.Section(vdom.Text("again")),
	}
}

func TestCaptureReplayMirrorsSender(t *testing.T) {
	for _, release := range []bool{false, true} {
		name := "keep_handles"
		var flags protocol.BatchFlags
		if release {
			name = "release_handles"
			flags = protocol.BatchRelease
		}
		t.Run(name, func(t *testing.T) {
			sender := newPeer(t)
			receiver := newPeer(t)

			capture := protocol.NewCapture(sender.graph)
			session := vdom.NewSession(capture, sender.root)
			replayer := protocol.NewReplayer(receiver.graph, receiver.root, 0)

			for i, tree := range trees() {
				require.NoError(t, session.Render(tree))
				b := capture.Flush(flags)
				require.NotNil(t, b, "pass %d", i)
				if release {
					sender.graph.ClearHandles(sender.root)
				}

				wire := protocol.NewFrame(protocol.FrameMutations, protocol.EncodeBatch(b)).Encode()
				f, err := protocol.DecodeFrame(wire)
				require.NoError(t, err)
				decoded, err := protocol.DecodeBatch(f.Payload)
				require.NoError(t, err)

				require.NoError(t, replayer.Apply(decoded))
				assert.Equal(t, sender.html(t), receiver.html(t), "pass %d", i)
				assert.Equal(t, b.Seq, replayer.Seq())
				if release {
					assert.Equal(t, 1, receiver.graph.Handles())
				}
			}
		})
	}
}

func TestCaptureFlushEmpty(t *testing.T) {
	sender := newPeer(t)
	capture := protocol.NewCapture(sender.graph)
	session := vdom.NewSession(capture, sender.root)

	tree := vdom.Div(vdom.Text("x"))
	require.NoError(t, session.Render(tree))
	first := capture.Flush(0)
	require.NotNil(t, first)
	assert.Equal(t, uint64(1), first.Seq)

	require.NoError(t, session.Render(tree))
	assert.Equal(t, 0, capture.Pending())
	assert.Nil(t, capture.Flush(0))
	assert.Equal(t, uint64(1), capture.Seq())
}

func TestCaptureSkipsFailedCalls(t *testing.T) {
	sender := newPeer(t)
	capture := protocol.NewCapture(sender.graph)

	_, err := capture.ChildAt(sender.root, 3)
	require.ErrorIs(t, err, host.ErrIndexOutOfRange)
	assert.Equal(t, 0, capture.Pending())
}

func TestReplaySequence(t *testing.T) {
	receiver := newPeer(t)
	replayer := protocol.NewReplayer(receiver.graph, receiver.root, 0)

	first := &protocol.Batch{Seq: 1, Mutations: []protocol.Mutation{
		{Op: vdom.OpCreateText, Value: "a", Result: 2},
		{Op: vdom.OpAppend, Parent: 1, Child: 2},
	}}
	require.NoError(t, replayer.Apply(first))

	// Replayed history is ignored.
	require.NoError(t, replayer.Apply(first))
	n, err := receiver.graph.Len(receiver.root)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = replayer.Apply(&protocol.Batch{Seq: 3})
	assert.ErrorIs(t, err, protocol.ErrSequenceGap)
	assert.Equal(t, uint64(1), replayer.Seq())
}

func TestReplayDesync(t *testing.T) {
	receiver := newPeer(t)
	replayer := protocol.NewReplayer(receiver.graph, receiver.root, 0)

	err := replayer.Apply(&protocol.Batch{Seq: 1, Mutations: []protocol.Mutation{
		{Op: vdom.OpCreateElement, Value: "div", Result: 9},
	}})
	assert.ErrorIs(t, err, protocol.ErrDesync)
	assert.Equal(t, uint64(0), replayer.Seq())
}

func TestReplayHostError(t *testing.T) {
	receiver := newPeer(t)
	replayer := protocol.NewReplayer(receiver.graph, receiver.root, 0)

	err := replayer.Apply(&protocol.Batch{Seq: 1, Mutations: []protocol.Mutation{
		{Op: vdom.OpRemoveChild, Parent: 1, Index: 0},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, host.ErrIndexOutOfRange))
	assert.Contains(t, err.Error(), "RemoveChildAt(#1, 0)")
}
