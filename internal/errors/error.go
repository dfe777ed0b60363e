package errors

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// Category represents the type of error.
type Category string

const (
	CategoryHost     Category = "host"
	CategoryDocument Category = "document"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryServer   Category = "server"
)

// Error is a coded error with a detail, a suggestion and the error that
// caused it.
type Error struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category groups related codes.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Source names the file, mount or URL the error relates to.
	Source string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSource records what the error relates to.
func (e *Error) WithSource(s string) *Error {
	e.Source = s
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error with the given code.
// An error that already is (or wraps) an *Error is returned as is.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}

// Classify maps errors produced by the vdom, protocol and config layers
// to a registered code. fallback is used when nothing matches.
func Classify(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}

	var hostErr *vdom.HostError
	switch {
	case stderrors.As(err, &hostErr):
		return New(CodeHostFailed).Wrap(err)
	case stderrors.Is(err, vdom.ErrNotMounted):
		return New(CodeNotMounted).Wrap(err)
	case stderrors.Is(err, vdom.ErrUnknownFormat):
		return New(CodeUnknownFormat).Wrap(err)
	case stderrors.Is(err, vdom.ErrInvalidDocument):
		return New(CodeInvalidDocument).Wrap(err)
	case stderrors.Is(err, protocol.ErrDesync):
		return New(CodeDesync).Wrap(err)
	case stderrors.Is(err, protocol.ErrSequenceGap):
		return New(CodeSequenceGap).Wrap(err)
	case stderrors.Is(err, protocol.ErrUnknownOp),
		stderrors.Is(err, protocol.ErrVarintOverflow),
		stderrors.Is(err, protocol.ErrAllocationTooLarge),
		stderrors.Is(err, protocol.ErrCollectionTooLarge),
		stderrors.Is(err, protocol.ErrFrameTooLarge),
		stderrors.Is(err, protocol.ErrVersionMismatch),
		stderrors.Is(err, io.ErrUnexpectedEOF):
		return New(CodeDecode).Wrap(err)
	}
	return New(fallback).Wrap(err)
}

// Code returns the code of the first *Error in err's chain, or "".
func Code(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}
