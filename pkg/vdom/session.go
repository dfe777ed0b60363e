package vdom

import "time"

// RenderStats describes one successful render pass.
type RenderStats struct {
	// Calls counts Sink calls by operation.
	Calls map[Op]int

	// Duration is the wall time of the reconciliation pass.
	Duration time.Duration
}

// Total returns the number of Sink calls issued.
func (s RenderStats) Total() int {
	n := 0
	for _, c := range s.Calls {
		n += c
	}
	return n
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithObserver registers a callback invoked after every successful render.
func WithObserver(fn func(RenderStats)) SessionOption {
	return func(s *Session) {
		s.observers = append(s.observers, fn)
	}
}

// Session owns the tree currently rendered under one mount point.
//
// A Session is not safe for concurrent use. Callers that render from more
// than one goroutine must serialize Render themselves.
type Session struct {
	sink      Sink
	root      Handle
	current   Node
	observers []func(RenderStats)
}

// NewSession creates a session that renders under root through sink.
// Nothing is mounted until the first Render.
func NewSession(sink Sink, root Handle, opts ...SessionOption) *Session {
	s := &Session{
		sink:    sink,
		root:    root,
		current: EmptyNode{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render reconciles next against the previously rendered tree and, only if
// every Sink call succeeded, makes next the current tree.
func (s *Session) Render(next Node) error {
	if s == nil || s.sink == nil {
		return ErrNotMounted
	}
	next = normalize(next)

	sink := s.sink
	var counter *countingSink
	if len(s.observers) > 0 {
		counter = &countingSink{Sink: s.sink, calls: make(map[Op]int)}
		sink = counter
	}

	start := time.Now()
	if err := NewReconciler(sink).Reconcile(s.root, 0, next, s.current); err != nil {
		return err
	}
	s.current = next

	if counter != nil {
		stats := RenderStats{Calls: counter.calls, Duration: time.Since(start)}
		for _, fn := range s.observers {
			fn(stats)
		}
	}
	return nil
}

// Current returns the tree rendered by the last successful Render.
func (s *Session) Current() Node {
	return s.current
}

// Root returns the mount handle.
func (s *Session) Root() Handle {
	return s.root
}

// countingSink tallies calls on their way to the wrapped Sink.
type countingSink struct {
	Sink
	calls map[Op]int
}

func (c *countingSink) CreateElement(tag string) (Handle, error) {
	c.calls[OpCreateElement]++
	return c.Sink.CreateElement(tag)
}

func (c *countingSink) CreateText(content string) (Handle, error) {
	c.calls[OpCreateText]++
	return c.Sink.CreateText(content)
}

func (c *countingSink) Append(parent, child Handle) error {
	c.calls[OpAppend]++
	return c.Sink.Append(parent, child)
}

func (c *countingSink) RemoveChildAt(parent Handle, index int) error {
	c.calls[OpRemoveChild]++
	return c.Sink.RemoveChildAt(parent, index)
}

func (c *countingSink) ReplaceChildAt(parent Handle, index int, child Handle) error {
	c.calls[OpReplaceChild]++
	return c.Sink.ReplaceChildAt(parent, index, child)
}

func (c *countingSink) ChildAt(parent Handle, index int) (Handle, error) {
	c.calls[OpChildAt]++
	return c.Sink.ChildAt(parent, index)
}
