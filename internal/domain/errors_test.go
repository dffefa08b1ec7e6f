package domain

import (
	"errors"
	"testing"
)

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("backend.chat", ErrTimeout, "after 60s")
	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is should match the sentinel")
	}
	want := "backend.chat: after 60s: request timed out"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := NewDomainError("backend.chat", ErrTimeout, "")
	if bare.Error() != "backend.chat: request timed out" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestWrapOp(t *testing.T) {
	if WrapOp("op", nil) != nil {
		t.Error("WrapOp(nil) should be nil")
	}
	wrapped := WrapOp("session.submit", ErrBusy)
	if !errors.Is(wrapped, ErrBusy) {
		t.Error("wrapped error should match ErrBusy")
	}
}
