package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 6
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello     FrameType = 0x00 // Mount description
	FrameMutations FrameType = 0x02 // One mutation batch
	FrameError     FrameType = 0x05 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameMutations:
		return "Mutations"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	FlagFinal FrameFlags = 0x04 // Last frame of a history replay
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame represents a protocol frame with header and payload.
//
// Wire format (6 bytes header + variable payload):
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//	│                                                             │
//	│  Payload (variable length)                                  │
//	│                                                             │
//	└─────────────────────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a new frame with the given type and payload.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	e := NewEncoderWithCap(FrameHeaderSize + len(f.Payload))
	f.EncodeTo(e)
	return e.Bytes()
}

// EncodeTo encodes the frame using the provided encoder.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// DecodeFrameHeader decodes just the frame header, returning type, flags, and payload length.
func DecodeFrameHeader(data []byte) (FrameType, FrameFlags, int, error) {
	if len(data) < FrameHeaderSize {
		return 0, 0, 0, io.ErrUnexpectedEOF
	}

	ft := FrameType(data[0])
	flags := FrameFlags(data[1])
	length := int(uint32(data[2])<<24 | uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5]))

	return ft, flags, length, nil
}

// DecodeFrame decodes a frame from bytes.
// The input must contain the header and the full payload.
func DecodeFrame(data []byte) (*Frame, error) {
	return DecodeFrameWithLimits(data, DefaultLimits())
}

// DecodeFrameWithLimits decodes a frame, rejecting payloads larger than
// limits.MaxPayload.
func DecodeFrameWithLimits(data []byte, limits Limits) (*Frame, error) {
	ft, flags, length, err := DecodeFrameHeader(data)
	if err != nil {
		return nil, err
	}
	if length > limits.normalized().MaxPayload {
		return nil, ErrFrameTooLarge
	}
	if len(data)-FrameHeaderSize < length {
		return nil, io.ErrUnexpectedEOF
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])

	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// ReadFrame reads a complete frame from an io.Reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	ft, flags, length, err := DecodeFrameHeader(header)
	if err != nil {
		return nil, err
	}
	if length > DefaultMaxPayload {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// WriteFrame writes a complete frame to an io.Writer.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > DefaultMaxPayload {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
