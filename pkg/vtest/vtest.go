package vtest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/vdiff/pkg/host"
	"github.com/vango-dev/vdiff/pkg/render"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Harness is a session mounted on an in-memory graph with call recording.
type Harness struct {
	Graph    *host.Graph
	Recorder *host.Recorder
	Session  *vdom.Session
	Root     vdom.Handle
}

// New creates a harness whose session renders under the graph's root.
// The root is always handle #1.
func New(t testing.TB, opts ...host.Option) *Harness {
	t.Helper()
	g := host.New(opts...)
	root, err := g.Root()
	if err != nil {
		t.Fatalf("vtest: root handle: %v", err)
	}
	rec := host.NewRecorder(g)
	return &Harness{
		Graph:    g,
		Recorder: rec,
		Session:  vdom.NewSession(rec, root),
		Root:     root,
	}
}

// Render renders next, failing the test on error, and returns the calls
// issued by this pass only.
func (h *Harness) Render(t testing.TB, next vdom.Node) []string {
	t.Helper()
	h.Recorder.Reset()
	if err := h.Session.Render(next); err != nil {
		t.Fatalf("vtest: render: %v\ncalls so far:\n%s", err, h.Recorder)
	}
	return h.Recorder.Lines()
}

// HTML returns the HTML currently mounted under the root.
func (h *Harness) HTML() string {
	tree, err := h.Graph.Snapshot(h.Root)
	if err != nil {
		return ""
	}
	var b strings.Builder
	if err := render.NewRenderer(render.RendererConfig{}).RenderChildren(&b, tree); err != nil {
		return ""
	}
	return b.String()
}

// ExpectHTML asserts the mounted HTML.
func (h *Harness) ExpectHTML(t testing.TB, want string) {
	t.Helper()
	if got := h.HTML(); got != want {
		t.Errorf("mounted HTML mismatch\n got: %s\nwant: %s", got, want)
	}
}

// ExpectConsistent asserts that the live graph under the root matches the
// session's current tree.
func (h *Harness) ExpectConsistent(t testing.TB) {
	t.Helper()
	tree, err := h.Graph.Snapshot(h.Root)
	if err != nil {
		t.Fatalf("vtest: snapshot: %v", err)
	}
	root, ok := tree.(*vdom.ElementNode)
	if !ok {
		t.Fatalf("vtest: root is %s, want Element", tree.Kind())
	}

	current := h.Session.Current()
	switch {
	case vdom.IsEmpty(current):
		if root.Len() != 0 {
			t.Errorf("session is empty but root has %d children: %s", root.Len(), h.HTML())
		}
	case root.Len() != 1:
		t.Errorf("root has %d children, want 1: %s", root.Len(), h.HTML())
	case !vdom.Equal(root.Child(0), current):
		t.Errorf("live graph diverged from session\n live: %s\n want: %s",
			render.String(root.Child(0)), render.String(current))
	}
}

// ExpectCalls asserts an exact call sequence.
func ExpectCalls(t testing.TB, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("got %d calls, want %d\n got:\n  %s\nwant:\n  %s",
			len(got), len(want), strings.Join(got, "\n  "), strings.Join(want, "\n  "))
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// ExpectNoCalls asserts that a pass issued nothing.
func ExpectNoCalls(t testing.TB, got []string) {
	t.Helper()
	if len(got) != 0 {
		t.Errorf("expected no sink calls, got:\n  %s", strings.Join(got, "\n  "))
	}
}

// CountPrefix counts calls starting with prefix, e.g. "RemoveChildAt".
func CountPrefix(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// FailingSink forwards to a vdom.Sink until the n-th call of one operation,
// which fails with Err instead of being forwarded.
type FailingSink struct {
	vdom.Sink
	Op  vdom.Op
	N   int
	Err error

	mu   sync.Mutex
	seen int
}

// FailOn makes the n-th (1-based) call of op on sink fail with err.
func FailOn(sink vdom.Sink, op vdom.Op, n int, err error) *FailingSink {
	return &FailingSink{Sink: sink, Op: op, N: n, Err: err}
}

func (f *FailingSink) trip(op vdom.Op) error {
	if op != f.Op {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen++
	if f.seen == f.N {
		return f.Err
	}
	return nil
}

// CreateElement implements vdom.Sink.
func (f *FailingSink) CreateElement(tag string) (vdom.Handle, error) {
	if err := f.trip(vdom.OpCreateElement); err != nil {
		return 0, err
	}
	return f.Sink.CreateElement(tag)
}

// CreateText implements vdom.Sink.
func (f *FailingSink) CreateText(content string) (vdom.Handle, error) {
	if err := f.trip(vdom.OpCreateText); err != nil {
		return 0, err
	}
	return f.Sink.CreateText(content)
}

// Append implements vdom.Sink.
func (f *FailingSink) Append(parent, child vdom.Handle) error {
	if err := f.trip(vdom.OpAppend); err != nil {
		return err
	}
	return f.Sink.Append(parent, child)
}

// RemoveChildAt implements vdom.Sink.
func (f *FailingSink) RemoveChildAt(parent vdom.Handle, index int) error {
	if err := f.trip(vdom.OpRemoveChild); err != nil {
		return err
	}
	return f.Sink.RemoveChildAt(parent, index)
}

// ReplaceChildAt implements vdom.Sink.
func (f *FailingSink) ReplaceChildAt(parent vdom.Handle, index int, child vdom.Handle) error {
	if err := f.trip(vdom.OpReplaceChild); err != nil {
		return err
	}
	return f.Sink.ReplaceChildAt(parent, index, child)
}

// ChildAt implements vdom.Sink.
func (f *FailingSink) ChildAt(parent vdom.Handle, index int) (vdom.Handle, error) {
	if err := f.trip(vdom.OpChildAt); err != nil {
		return 0, err
	}
	return f.Sink.ChildAt(parent, index)
}
