package vdom

import (
	"errors"
	"fmt"
)

// Handle is an opaque reference to a live node owned by a Sink.
// The reconciler never interprets it; it only threads it through calls.
type Handle uint64

// Sink applies mutations to the live node graph on behalf of the
// reconciler. All calls are synchronous. A returned error aborts the
// current reconciliation pass.
type Sink interface {
	// CreateElement creates a detached element node.
	CreateElement(tag string) (Handle, error)

	// CreateText creates a detached text node.
	CreateText(content string) (Handle, error)

	// Append attaches child as the last child of parent.
	Append(parent, child Handle) error

	// RemoveChildAt detaches the child of parent at index.
	RemoveChildAt(parent Handle, index int) error

	// ReplaceChildAt swaps the child of parent at index for child.
	ReplaceChildAt(parent Handle, index int, child Handle) error

	// ChildAt returns a handle to the child of parent at index.
	ChildAt(parent Handle, index int) (Handle, error)
}

// Op identifies a Sink operation.
type Op uint8

const (
	OpCreateElement Op = 0x01 // Create element node
	OpCreateText    Op = 0x02 // Create text node
	OpAppend        Op = 0x03 // Append child
	OpRemoveChild   Op = 0x04 // Remove child at index
	OpReplaceChild  Op = 0x05 // Replace child at index
	OpChildAt       Op = 0x06 // Resolve child at index
)

// Ops lists every Sink operation in declaration order.
var Ops = []Op{OpCreateElement, OpCreateText, OpAppend, OpRemoveChild, OpReplaceChild, OpChildAt}

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpAppend:
		return "Append"
	case OpRemoveChild:
		return "RemoveChildAt"
	case OpReplaceChild:
		return "ReplaceChildAt"
	case OpChildAt:
		return "ChildAt"
	default:
		return "Unknown"
	}
}

// IsStructural reports whether op changes the live graph.
// CreateElement, CreateText and ChildAt only produce handles.
func (op Op) IsStructural() bool {
	return op == OpAppend || op == OpRemoveChild || op == OpReplaceChild
}

// ErrNotMounted is returned when Render is called on a session that was
// never constructed with a sink.
var ErrNotMounted = errors.New("vdom: session not mounted")

// HostError wraps a failure reported by the Sink.
type HostError struct {
	Op  Op
	Err error
}

// Error implements the error interface.
func (e *HostError) Error() string {
	return fmt.Sprintf("vdom: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the sink's error for errors.Is/As support.
func (e *HostError) Unwrap() error {
	return e.Err
}

func hostError(op Op, err error) error {
	return &HostError{Op: op, Err: err}
}
