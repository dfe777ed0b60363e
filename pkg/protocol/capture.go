package protocol

import (
	"sync"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Capture is a vdom.Sink that forwards every call to an underlying sink
// and records the successful ones as Mutations. Flush turns what has been
// recorded into the next Batch.
type Capture struct {
	next vdom.Sink

	mu      sync.Mutex
	pending []Mutation
	seq     uint64
}

var _ vdom.Sink = (*Capture)(nil)

// NewCapture wraps next. The first flushed batch has sequence number 1.
func NewCapture(next vdom.Sink) *Capture {
	return &Capture{next: next}
}

func (c *Capture) record(m Mutation) {
	c.mu.Lock()
	c.pending = append(c.pending, m)
	c.mu.Unlock()
}

// CreateElement implements vdom.Sink.
func (c *Capture) CreateElement(tag string) (vdom.Handle, error) {
	h, err := c.next.CreateElement(tag)
	if err == nil {
		c.record(Mutation{Op: vdom.OpCreateElement, Value: tag, Result: h})
	}
	return h, err
}

// CreateText implements vdom.Sink.
func (c *Capture) CreateText(content string) (vdom.Handle, error) {
	h, err := c.next.CreateText(content)
	if err == nil {
		c.record(Mutation{Op: vdom.OpCreateText, Value: content, Result: h})
	}
	return h, err
}

// Append implements vdom.Sink.
func (c *Capture) Append(parent, child vdom.Handle) error {
	err := c.next.Append(parent, child)
	if err == nil {
		c.record(Mutation{Op: vdom.OpAppend, Parent: parent, Child: child})
	}
	return err
}

// RemoveChildAt implements vdom.Sink.
func (c *Capture) RemoveChildAt(parent vdom.Handle, index int) error {
	err := c.next.RemoveChildAt(parent, index)
	if err == nil {
		c.record(Mutation{Op: vdom.OpRemoveChild, Parent: parent, Index: index})
	}
	return err
}

// ReplaceChildAt implements vdom.Sink.
func (c *Capture) ReplaceChildAt(parent vdom.Handle, index int, child vdom.Handle) error {
	err := c.next.ReplaceChildAt(parent, index, child)
	if err == nil {
		c.record(Mutation{Op: vdom.OpReplaceChild, Parent: parent, Index: index, Child: child})
	}
	return err
}

// ChildAt implements vdom.Sink.
func (c *Capture) ChildAt(parent vdom.Handle, index int) (vdom.Handle, error) {
	h, err := c.next.ChildAt(parent, index)
	if err == nil {
		c.record(Mutation{Op: vdom.OpChildAt, Parent: parent, Index: index, Result: h})
	}
	return h, err
}

// Pending returns the number of recorded, unflushed mutations.
func (c *Capture) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Seq returns the sequence number of the last flushed batch.
func (c *Capture) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Flush moves the recorded mutations into a new Batch with the next
// sequence number. It returns nil when nothing was recorded, so a render
// pass that changed nothing consumes no sequence number.
//
// Mutations recorded by a failed pass are flushed too: they were applied
// to the underlying sink and a receiver must apply them as well to stay
// in step.
func (c *Capture) Flush(flags BatchFlags) *Batch {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return nil
	}
	c.seq++
	b := &Batch{Seq: c.seq, Flags: flags, Mutations: c.pending}
	c.pending = nil
	return b
}
