package domainerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "cpf already registered")
	if !HasCode(err, CodeConflict) {
		t.Fatalf("expected CodeConflict")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatalf("did not expect CodeNotFound")
	}
	if HasCode(errors.New("plain"), CodeConflict) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeNotFound, "person not found")
	outer := fmt.Errorf("registry: %w", inner)
	if !HasCode(outer, CodeNotFound) {
		t.Fatalf("expected code to survive fmt.Errorf wrapping")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "storage unavailable")
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if CodeOf(err) != CodeInternal {
		t.Fatalf("expected CodeInternal, got %s", CodeOf(err))
	}
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	if CodeOf(errors.New("boom")) != CodeInternal {
		t.Fatalf("unclassified errors default to internal")
	}
}

func TestFieldAttribution(t *testing.T) {
	err := NewField(CodeValidation, "name", "must be non-empty and at most 200 characters")
	if FieldOf(err) != "name" {
		t.Fatalf("expected field name, got %q", FieldOf(err))
	}
	if got := err.Error(); got != "validation_error: name: must be non-empty and at most 200 characters" {
		t.Fatalf("unexpected message: %q", got)
	}
}
