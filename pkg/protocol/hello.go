package protocol

import "github.com/vango-dev/vdiff/pkg/vdom"

// ProtocolVersion is the current wire version.
const ProtocolVersion uint16 = 1

// Hello is the first frame on a stream. It names the mount, the root
// handle the receiver must reproduce, and the sequence number of the last
// batch already applied by the sender.
type Hello struct {
	Version uint16
	MountID string
	RootTag string
	Root    vdom.Handle
	Seq     uint64
}

// EncodeHello encodes a Hello to bytes.
func EncodeHello(h *Hello) []byte {
	e := NewEncoderWithCap(32 + len(h.MountID) + len(h.RootTag))
	e.WriteUint16(h.Version)
	e.WriteString(h.MountID)
	e.WriteString(h.RootTag)
	e.WriteUvarint(uint64(h.Root))
	e.WriteUvarint(h.Seq)
	return e.Bytes()
}

// DecodeHello decodes a Hello from bytes.
func DecodeHello(data []byte) (*Hello, error) {
	d := NewDecoder(data)
	h := &Hello{}
	var err error
	if h.Version, err = d.ReadUint16(); err != nil {
		return nil, err
	}
	if h.Version != ProtocolVersion {
		return nil, ErrVersionMismatch
	}
	if h.MountID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if h.RootTag, err = d.ReadString(); err != nil {
		return nil, err
	}
	if h.Root, err = readHandle(d); err != nil {
		return nil, err
	}
	if h.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	return h, nil
}
