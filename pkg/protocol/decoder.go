package protocol

import (
	"errors"
	"io"
)

// Common decoding errors.
var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
)

// Decoder is a binary decoder that reads from a byte buffer.
type Decoder struct {
	buf    []byte
	pos    int
	limits Limits
}

// NewDecoder creates a new decoder with DefaultLimits.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf, limits: DefaultLimits()}
}

// NewDecoderWithLimits creates a new decoder with custom limits.
func NewDecoderWithLimits(buf []byte, limits Limits) *Decoder {
	return &Decoder{buf: buf, limits: limits.normalized()}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF returns true if all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint

	for {
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
	}
}

// ReadInt reads a varint that must fit a non-negative int.
func (d *Decoder) ReadInt() (int, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > uint64(maxInt) {
		return 0, ErrVarintOverflow
	}
	return int(v), nil
}

const maxInt = int(^uint(0) >> 1)

// ReadString reads a length-prefixed UTF-8 string.
// Returns ErrAllocationTooLarge if the string exceeds Limits.MaxString.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	if length > uint64(d.limits.MaxString) {
		return "", ErrAllocationTooLarge
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// ReadBool reads a boolean (single byte, any non-zero value is true).
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0x00, nil
}

// ReadUint16 reads a uint16 in big-endian byte order.
func (d *Decoder) ReadUint16() (uint16, error) {
	if d.pos+2 > len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := uint16(d.buf[d.pos])<<8 | uint16(d.buf[d.pos+1])
	d.pos += 2
	return v, nil
}

// ReadCollectionCount reads a varint count and validates it against
// Limits.MaxMutations and the bytes left (every item takes at least one).
func (d *Decoder) ReadCollectionCount() (int, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if count > uint64(d.limits.MaxMutations) {
		return 0, ErrCollectionTooLarge
	}
	if count > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(count), nil
}
