package protocol

import (
	"fmt"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Mutation is one Sink call as it travels on the wire.
type Mutation struct {
	Op     vdom.Op
	Parent vdom.Handle // Append, RemoveChildAt, ReplaceChildAt, ChildAt
	Child  vdom.Handle // Append, ReplaceChildAt
	Index  int         // RemoveChildAt, ReplaceChildAt, ChildAt
	Value  string      // CreateElement tag, CreateText content
	Result vdom.Handle // CreateElement, CreateText, ChildAt
}

// BatchFlags modify how a receiver treats a batch.
type BatchFlags uint8

const (
	// BatchRelease asks the receiver to drop every handle except the
	// mount root once the batch is applied.
	BatchRelease BatchFlags = 0x01
)

// Batch is the set of mutations produced by one render pass.
type Batch struct {
	Seq       uint64
	Flags     BatchFlags
	Mutations []Mutation
}

// Release reports whether the batch carries BatchRelease.
func (b *Batch) Release() bool {
	return b.Flags&BatchRelease != 0
}

// EncodeBatch encodes a Batch to bytes.
func EncodeBatch(b *Batch) []byte {
	e := NewEncoderWithCap(16 + len(b.Mutations)*8)
	EncodeBatchTo(e, b)
	return e.Bytes()
}

// EncodeBatchTo encodes a Batch using the provided encoder.
func EncodeBatchTo(e *Encoder, b *Batch) {
	e.WriteUvarint(b.Seq)
	e.WriteByte(byte(b.Flags))
	e.WriteUvarint(uint64(len(b.Mutations)))
	for i := range b.Mutations {
		encodeMutation(e, &b.Mutations[i])
	}
}

func encodeMutation(e *Encoder, m *Mutation) {
	e.WriteByte(byte(m.Op))
	switch m.Op {
	case vdom.OpCreateElement, vdom.OpCreateText:
		e.WriteString(m.Value)
		e.WriteUvarint(uint64(m.Result))
	case vdom.OpAppend:
		e.WriteUvarint(uint64(m.Parent))
		e.WriteUvarint(uint64(m.Child))
	case vdom.OpRemoveChild:
		e.WriteUvarint(uint64(m.Parent))
		e.WriteUvarint(uint64(m.Index))
	case vdom.OpReplaceChild:
		e.WriteUvarint(uint64(m.Parent))
		e.WriteUvarint(uint64(m.Index))
		e.WriteUvarint(uint64(m.Child))
	case vdom.OpChildAt:
		e.WriteUvarint(uint64(m.Parent))
		e.WriteUvarint(uint64(m.Index))
		e.WriteUvarint(uint64(m.Result))
	}
}

// DecodeBatch decodes a Batch from bytes using DefaultLimits.
func DecodeBatch(data []byte) (*Batch, error) {
	return DecodeBatchFrom(NewDecoder(data))
}

// DecodeBatchFrom decodes a Batch from a decoder.
func DecodeBatchFrom(d *Decoder) (*Batch, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	b := &Batch{
		Seq:       seq,
		Flags:     BatchFlags(flags),
		Mutations: make([]Mutation, count),
	}
	for i := range b.Mutations {
		if err := decodeMutation(d, &b.Mutations[i]); err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
	}
	return b, nil
}

func decodeMutation(d *Decoder, m *Mutation) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.Op = vdom.Op(op)

	switch m.Op {
	case vdom.OpCreateElement, vdom.OpCreateText:
		if m.Value, err = d.ReadString(); err != nil {
			return err
		}
		m.Result, err = readHandle(d)
	case vdom.OpAppend:
		if m.Parent, err = readHandle(d); err != nil {
			return err
		}
		m.Child, err = readHandle(d)
	case vdom.OpRemoveChild:
		if m.Parent, err = readHandle(d); err != nil {
			return err
		}
		m.Index, err = d.ReadInt()
	case vdom.OpReplaceChild:
		if m.Parent, err = readHandle(d); err != nil {
			return err
		}
		if m.Index, err = d.ReadInt(); err != nil {
			return err
		}
		m.Child, err = readHandle(d)
	case vdom.OpChildAt:
		if m.Parent, err = readHandle(d); err != nil {
			return err
		}
		if m.Index, err = d.ReadInt(); err != nil {
			return err
		}
		m.Result, err = readHandle(d)
	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOp, op)
	}
	return err
}

func readHandle(d *Decoder) (vdom.Handle, error) {
	v, err := d.ReadUvarint()
	return vdom.Handle(v), err
}

// String renders the mutation in the same form as host.Call.
func (m Mutation) String() string {
	switch m.Op {
	case vdom.OpCreateElement, vdom.OpCreateText:
		return fmt.Sprintf("%s(%q) = #%d", m.Op, m.Value, m.Result)
	case vdom.OpAppend:
		return fmt.Sprintf("%s(#%d, #%d)", m.Op, m.Parent, m.Child)
	case vdom.OpRemoveChild:
		return fmt.Sprintf("%s(#%d, %d)", m.Op, m.Parent, m.Index)
	case vdom.OpReplaceChild:
		return fmt.Sprintf("%s(#%d, %d, #%d)", m.Op, m.Parent, m.Index, m.Child)
	case vdom.OpChildAt:
		return fmt.Sprintf("%s(#%d, %d) = #%d", m.Op, m.Parent, m.Index, m.Result)
	default:
		return m.Op.String()
	}
}
