package protocol

// ErrorCode identifies the type of error.
type ErrorCode uint16

const (
	ErrInvalidFrame ErrorCode = 0x0001 // Peer sent a data frame on a read-only stream
	ErrInvalidBatch ErrorCode = 0x0002 // Requested seq is ahead of the mount
	ErrHistoryGone  ErrorCode = 0x0004 // Requested seq no longer buffered
	ErrSlowConsumer ErrorCode = 0x0006 // Subscriber fell behind
	ErrServerError  ErrorCode = 0x0100 // Internal server error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrInvalidBatch:
		return "InvalidBatch"
	case ErrHistoryGone:
		return "HistoryGone"
	case ErrSlowConsumer:
		return "SlowConsumer"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Code    ErrorCode // Error code
	Message string    // Human-readable error message
	Fatal   bool      // If true, connection should be closed
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	EncodeErrorMessageTo(e, em)
	return e.Bytes()
}

// EncodeErrorMessageTo encodes an ErrorMessage using the provided encoder.
func EncodeErrorMessageTo(e *Encoder, em *ErrorMessage) {
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	return DecodeErrorMessageFrom(d)
}

// DecodeErrorMessageFrom decodes an ErrorMessage from a decoder.
func DecodeErrorMessageFrom(d *Decoder) (*ErrorMessage, error) {
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}

	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	return &ErrorMessage{
		Code:    ErrorCode(code),
		Message: message,
		Fatal:   fatal,
	}, nil
}

// NewFatalError creates a new fatal ErrorMessage.
func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{
		Code:    code,
		Message: message,
		Fatal:   true,
	}
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}

// IsFatal returns true if this error should close the connection.
func (em *ErrorMessage) IsFatal() bool {
	return em.Fatal
}
