package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeNames(t *testing.T) {
	tests := []struct {
		code ErrorCode
		name string
	}{
		{ErrParse, "Parse"},
		{ErrUnknownIdentifier, "UnknownIdentifier"},
		{ErrUnsupportedOperator, "UnsupportedOperator"},
		{ErrKindMismatch, "KindMismatch"},
		{ErrUnsupportedReturnKind, "UnsupportedReturnKind"},
		{ErrBackend, "Backend"},
	}

	for _, tt := range tests {
		if tt.code.String() != tt.name {
			t.Errorf("ErrorCode %d should stringify to %s, got %s", int(tt.code), tt.name, tt.code)
		}
		if tt.code.Message() == "" {
			t.Errorf("ErrorCode %s should have a message", tt.name)
		}
	}
}

func TestCompileErrorRendering(t *testing.T) {
	err := NewError(ErrUnknownIdentifier, "unknown variable %s", "x")
	want := "UnknownIdentifier: unknown variable x"
	if err.Error() != want {
		t.Errorf("Error() = %q, expected %q", err.Error(), want)
	}
}

func TestCodeOf(t *testing.T) {
	err := NewError(ErrKindMismatch, "bool vs i32")
	code, ok := CodeOf(err)
	if !ok || code != ErrKindMismatch {
		t.Errorf("CodeOf = %v, %v; expected KindMismatch, true", code, ok)
	}

	// Classification survives wrapping
	wrapped := fmt.Errorf("compile: %w", err)
	code, ok = CodeOf(wrapped)
	if !ok || code != ErrKindMismatch {
		t.Errorf("CodeOf(wrapped) = %v, %v; expected KindMismatch, true", code, ok)
	}

	if _, ok := CodeOf(errors.New("plain")); ok {
		t.Error("CodeOf should not classify plain errors")
	}
}
