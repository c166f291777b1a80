package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the failure that aborted a compile.
// Every lowering error carries exactly one code; there is no recovery or
// partial-success mode.
type ErrorCode int

const (
	ErrParse ErrorCode = iota
	ErrUnknownIdentifier
	ErrUnsupportedOperator
	ErrKindMismatch
	ErrUnsupportedReturnKind
	ErrBackend
)

// String returns the code's short name
func (c ErrorCode) String() string {
	switch c {
	case ErrParse:
		return "Parse"
	case ErrUnknownIdentifier:
		return "UnknownIdentifier"
	case ErrUnsupportedOperator:
		return "UnsupportedOperator"
	case ErrKindMismatch:
		return "KindMismatch"
	case ErrUnsupportedReturnKind:
		return "UnsupportedReturnKind"
	case ErrBackend:
		return "Backend"
	default:
		return "Unknown"
	}
}

// Message returns the code's generic description
func (c ErrorCode) Message() string {
	switch c {
	case ErrParse:
		return "program could not be decoded"
	case ErrUnknownIdentifier:
		return "identifier is not bound"
	case ErrUnsupportedOperator:
		return "operator is not implemented for these operands"
	case ErrKindMismatch:
		return "operand kinds do not agree"
	case ErrUnsupportedReturnKind:
		return "return kind has no call-result wrapper"
	case ErrBackend:
		return "backend operation failed"
	default:
		return "unknown error"
	}
}

// CompileError is the classified error a failed compile surfaces
type CompileError struct {
	Code   ErrorCode
	Detail string
}

// Error renders the code name and the detail
func (e *CompileError) Error() string {
	if e.Detail == "" {
		return e.Code.Message()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// NewError creates a classified compile error
func NewError(code ErrorCode, format string, args ...interface{}) *CompileError {
	return &CompileError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the classification from an error chain
func CodeOf(err error) (ErrorCode, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return ErrBackend, false
}
