package auth

import (
	"errors"
	"fmt"
	"testing"
)

func TestKeychainFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-api-key-12345")
	kc := NewKeychain()
	if kc.Key() != "test-api-key-12345" {
		t.Errorf("Key() = %q, want env value", kc.Key())
	}
	// An env key is present but not yet validated.
	if kc.Selected() {
		t.Error("Selected() = true before validation")
	}
}

func TestKeychainSelectedLifecycle(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	kc := NewKeychain()
	if kc.Selected() {
		t.Error("Selected() = true with no key")
	}

	if err := kc.SetKey("abc"); err != nil {
		t.Fatalf("SetKey() error: %v", err)
	}
	kc.MarkValid()
	if !kc.Selected() {
		t.Error("Selected() = false after SetKey + MarkValid")
	}

	kc.Invalidate()
	if kc.Selected() {
		t.Error("Selected() = true after Invalidate")
	}
}

func TestSetKeyRejectsEmpty(t *testing.T) {
	kc := NewKeychain()
	if err := kc.SetKey("   "); err == nil {
		t.Error("SetKey(blank) should fail")
	}
}

func TestIsEntityNotFound(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Requested entity was not found."), true},
		{fmt.Errorf("generate video: %w", errors.New("Requested entity was not found.")), true},
		{errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		if got := IsEntityNotFound(tt.err); got != tt.want {
			t.Errorf("IsEntityNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	verr := &ValidationError{Type: ErrTypeUnknown, Message: "failed", Err: inner}
	if !errors.Is(verr, inner) {
		t.Error("ValidationError should unwrap to its cause")
	}
	if verr.Error() != "failed: boom" {
		t.Errorf("Error() = %q", verr.Error())
	}
}
