package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Replay errors.
var (
	ErrUnknownOp       = errors.New("protocol: unknown mutation op")
	ErrSequenceGap     = errors.New("protocol: batch sequence gap")
	ErrDesync          = errors.New("protocol: receiver handle desync")
	ErrVersionMismatch = errors.New("protocol: unsupported protocol version")
)

// HandleReleaser is implemented by sinks that can drop handles, such as
// host.Graph. The Replayer uses it for batches flagged BatchRelease.
type HandleReleaser interface {
	ClearHandles(keep ...vdom.Handle)
}

// Replayer applies batches produced by a Capture to another sink.
//
// The receiving sink must allocate handles the same way the sender's did
// (host.Graph does), so every result handle in a batch can be checked
// against the one the receiver produced.
type Replayer struct {
	sink vdom.Sink
	root vdom.Handle
	seq  uint64
}

// NewReplayer creates a Replayer for sink whose mount root is root.
// seq is the last sequence number already applied (0 for a fresh sink).
func NewReplayer(sink vdom.Sink, root vdom.Handle, seq uint64) *Replayer {
	return &Replayer{sink: sink, root: root, seq: seq}
}

// Seq returns the sequence number of the last applied batch.
func (r *Replayer) Seq() uint64 {
	return r.seq
}

// Apply applies one batch. Batches at or below Seq are ignored, so
// overlapping history is harmless; a batch that skips ahead is rejected
// with ErrSequenceGap.
func (r *Replayer) Apply(b *Batch) error {
	if b.Seq <= r.seq {
		return nil
	}
	if b.Seq != r.seq+1 {
		return fmt.Errorf("%w: have %d, got %d", ErrSequenceGap, r.seq, b.Seq)
	}

	for i := range b.Mutations {
		if err := r.apply(&b.Mutations[i]); err != nil {
			return fmt.Errorf("batch %d, mutation %d (%s): %w", b.Seq, i, b.Mutations[i], err)
		}
	}

	if b.Release() {
		if rel, ok := r.sink.(HandleReleaser); ok {
			rel.ClearHandles(r.root)
		}
	}
	r.seq = b.Seq
	return nil
}

func (r *Replayer) apply(m *Mutation) error {
	switch m.Op {
	case vdom.OpCreateElement:
		h, err := r.sink.CreateElement(m.Value)
		return r.check(h, m.Result, err)
	case vdom.OpCreateText:
		h, err := r.sink.CreateText(m.Value)
		return r.check(h, m.Result, err)
	case vdom.OpAppend:
		return r.sink.Append(m.Parent, m.Child)
	case vdom.OpRemoveChild:
		return r.sink.RemoveChildAt(m.Parent, m.Index)
	case vdom.OpReplaceChild:
		return r.sink.ReplaceChildAt(m.Parent, m.Index, m.Child)
	case vdom.OpChildAt:
		h, err := r.sink.ChildAt(m.Parent, m.Index)
		return r.check(h, m.Result, err)
	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOp, byte(m.Op))
	}
}

func (r *Replayer) check(got, want vdom.Handle, err error) error {
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: got #%d, want #%d", ErrDesync, got, want)
	}
	return nil
}
