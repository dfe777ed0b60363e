package protocol

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUvarint(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, math.MaxUint32, math.MaxUint64}
	e := NewEncoder()
	for _, v := range values {
		e.WriteUvarint(v)
	}

	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadUvarint()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.True(t, d.EOF())
}

func TestUvarintEncoding(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(300)
	assert.Equal(t, []byte{0xAC, 0x02}, e.Bytes())
}

func TestReadUvarintOverflow(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	_, err := NewDecoder(data).ReadUvarint()
	assert.ErrorIs(t, err, ErrVarintOverflow)
}

func TestReadUvarintTruncated(t *testing.T) {
	_, err := NewDecoder([]byte{0x80}).ReadUvarint()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestStringLimits(t *testing.T) {
	e := NewEncoder()
	e.WriteString("hello")

	s, err := NewDecoder(e.Bytes()).ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	_, err = NewDecoderWithLimits(e.Bytes(), Limits{MaxString: 4}).ReadString()
	assert.ErrorIs(t, err, ErrAllocationTooLarge)

	_, err = NewDecoder(e.Bytes()[:3]).ReadString()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestCollectionCountRejectsImpossibleCounts(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1000)
	e.WriteByte(0x01)

	_, err := NewDecoder(e.Bytes()).ReadCollectionCount()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = NewDecoderWithLimits(e.Bytes(), Limits{MaxMutations: 10}).ReadCollectionCount()
	assert.ErrorIs(t, err, ErrCollectionTooLarge)
}

func TestFixedWidth(t *testing.T) {
	e := NewEncoder()
	e.WriteUint16(0xBEEF)
	e.WriteBool(true)
	e.WriteBool(false)
	assert.Equal(t, 4, e.Len())

	d := NewDecoder(e.Bytes())
	v, err := d.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), v)
	b, err := d.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	b, err = d.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)

	e.Reset()
	assert.Equal(t, 0, e.Len())
}
