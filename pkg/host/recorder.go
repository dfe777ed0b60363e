package host

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Call is one recorded Sink call.
type Call struct {
	Op     vdom.Op
	Parent vdom.Handle // Append, RemoveChildAt, ReplaceChildAt, ChildAt
	Child  vdom.Handle // Append, ReplaceChildAt
	Index  int         // RemoveChildAt, ReplaceChildAt, ChildAt
	Value  string      // CreateElement tag, CreateText content
	Result vdom.Handle // CreateElement, CreateText, ChildAt
	Err    error
}

// String renders the call in a compact, stable form, e.g.
// `CreateElement("div") = #2` or `Append(#1, #2)`.
func (c Call) String() string {
	var s string
	switch c.Op {
	case vdom.OpCreateElement, vdom.OpCreateText:
		s = fmt.Sprintf("%s(%q) = #%d", c.Op, c.Value, c.Result)
	case vdom.OpAppend:
		s = fmt.Sprintf("%s(#%d, #%d)", c.Op, c.Parent, c.Child)
	case vdom.OpRemoveChild:
		s = fmt.Sprintf("%s(#%d, %d)", c.Op, c.Parent, c.Index)
	case vdom.OpReplaceChild:
		s = fmt.Sprintf("%s(#%d, %d, #%d)", c.Op, c.Parent, c.Index, c.Child)
	case vdom.OpChildAt:
		s = fmt.Sprintf("%s(#%d, %d) = #%d", c.Op, c.Parent, c.Index, c.Result)
	default:
		s = c.Op.String()
	}
	if c.Err != nil {
		s += " ! " + c.Err.Error()
	}
	return s
}

// Recorder is a vdom.Sink that records every call before forwarding it.
type Recorder struct {
	next vdom.Sink

	mu    sync.Mutex
	calls []Call
}

var _ vdom.Sink = (*Recorder)(nil)

// NewRecorder wraps next.
func NewRecorder(next vdom.Sink) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Lines returns the recorded calls formatted with Call.String.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// String joins Lines with newlines.
func (r *Recorder) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Count returns how many calls of op were recorded. With no ops it
// returns the total.
func (r *Recorder) Count(ops ...vdom.Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(ops) == 0 {
		return len(r.calls)
	}
	n := 0
	for _, c := range r.calls {
		for _, op := range ops {
			if c.Op == op {
				n++
				break
			}
		}
	}
	return n
}

// Reset drops every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// CreateElement implements vdom.Sink.
func (r *Recorder) CreateElement(tag string) (vdom.Handle, error) {
	h, err := r.next.CreateElement(tag)
	r.record(Call{Op: vdom.OpCreateElement, Value: tag, Result: h, Err: err})
	return h, err
}

// CreateText implements vdom.Sink.
func (r *Recorder) CreateText(content string) (vdom.Handle, error) {
	h, err := r.next.CreateText(content)
	r.record(Call{Op: vdom.OpCreateText, Value: content, Result: h, Err: err})
	return h, err
}

// Append implements vdom.Sink.
func (r *Recorder) Append(parent, child vdom.Handle) error {
	err := r.next.Append(parent, child)
	r.record(Call{Op: vdom.OpAppend, Parent: parent, Child: child, Err: err})
	return err
}

// RemoveChildAt implements vdom.Sink.
func (r *Recorder) RemoveChildAt(parent vdom.Handle, index int) error {
	err := r.next.RemoveChildAt(parent, index)
	r.record(Call{Op: vdom.OpRemoveChild, Parent: parent, Index: index, Err: err})
	return err
}

// ReplaceChildAt implements vdom.Sink.
func (r *Recorder) ReplaceChildAt(parent vdom.Handle, index int, child vdom.Handle) error {
	err := r.next.ReplaceChildAt(parent, index, child)
	r.record(Call{Op: vdom.OpReplaceChild, Parent: parent, Index: index, Child: child, Err: err})
	return err
}

// ChildAt implements vdom.Sink.
func (r *Recorder) ChildAt(parent vdom.Handle, index int) (vdom.Handle, error) {
	h, err := r.next.ChildAt(parent, index)
	r.record(Call{Op: vdom.OpChildAt, Parent: parent, Index: index, Result: h, Err: err})
	return h, err
}
