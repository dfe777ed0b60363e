package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int
	}{
		{
			name:    "empty_payload",
			frame:   Frame{Type: FrameMutations, Payload: []byte{}},
			wantLen: FrameHeaderSize,
		},
		{
			name:    "with_payload",
			frame:   Frame{Type: FrameMutations, Payload: []byte{0x01, 0x02, 0x03}},
			wantLen: FrameHeaderSize + 3,
		},
		{
			name:    "hello_final",
			frame:   Frame{Type: FrameHello, Flags: FlagFinal, Payload: []byte("mount")},
			wantLen: FrameHeaderSize + 5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.frame.Encode()
			require.Len(t, encoded, tc.wantLen)

			decoded, err := DecodeFrame(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.frame.Type, decoded.Type)
			assert.Equal(t, tc.frame.Flags, decoded.Flags)
			assert.Equal(t, len(tc.frame.Payload), len(decoded.Payload))
			assert.True(t, bytes.Equal(tc.frame.Payload, decoded.Payload))
		})
	}
}

func TestFrameHeaderLengthIsBigEndian(t *testing.T) {
	payload := make([]byte, 70000)
	encoded := NewFrame(FrameMutations, payload).Encode()

	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x01, 0x11, 0x70}, encoded[:FrameHeaderSize])

	ft, flags, length, err := DecodeFrameHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, FrameMutations, ft)
	assert.Equal(t, FrameFlags(0), flags)
	assert.Equal(t, 70000, length)
}

func TestDecodeFrameTruncated(t *testing.T) {
	_, err := DecodeFrame([]byte{0x02, 0x00, 0x00})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	encoded := NewFrame(FrameMutations, []byte("abcdef")).Encode()
	_, err = DecodeFrame(encoded[:len(encoded)-1])
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeFrameWithLimits(t *testing.T) {
	encoded := NewFrame(FrameMutations, make([]byte, 100)).Encode()

	_, err := DecodeFrameWithLimits(encoded, Limits{MaxPayload: 99})
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	f, err := DecodeFrameWithLimits(encoded, Limits{MaxPayload: 100})
	require.NoError(t, err)
	assert.Len(t, f.Payload, 100)
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, NewFrame(FrameHello, []byte("one"))))
	require.NoError(t, WriteFrame(&buf, &Frame{Type: FrameError, Flags: FlagFinal, Payload: []byte("two")}))

	f, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameHello, f.Type)
	assert.Equal(t, "one", string(f.Payload))

	f, err = ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, FrameError, f.Type)
	assert.True(t, f.Flags.Has(FlagFinal))
	assert.Equal(t, "two", string(f.Payload))

	_, err = ReadFrame(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameTypeString(t *testing.T) {
	assert.Equal(t, "Hello", FrameHello.String())
	assert.Equal(t, "Mutations", FrameMutations.String())
	assert.Equal(t, "Error", FrameError.String())
	assert.Equal(t, "Unknown", FrameType(0x7f).String())
}

func TestErrorMessage(t *testing.T) {
	em := NewFatalError(ErrHistoryGone, "seq 3 evicted")
	decoded, err := DecodeErrorMessage(EncodeErrorMessage(em))
	require.NoError(t, err)
	assert.Equal(t, em, decoded)
	assert.True(t, decoded.IsFatal())
	assert.Equal(t, "fatal: HistoryGone: seq 3 evicted", decoded.Error())

	soft := &ErrorMessage{Code: ErrInvalidFrame, Message: "x"}
	assert.Equal(t, "InvalidFrame: x", soft.Error())
	assert.False(t, soft.IsFatal())
	assert.Equal(t, "Unknown", ErrorCode(0x7f).String())
}
