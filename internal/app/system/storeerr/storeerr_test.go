package storeerr

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestWrap(t *testing.T) {
	if Wrap("profiles.create", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}

	base := errors.New("connection reset")
	err := Wrap("profiles.create", base)
	if !IsPersistence(err) {
		t.Fatalf("expected PersistenceError, got %T", err)
	}
	if !errors.Is(err, base) {
		t.Error("PersistenceError should unwrap to the driver error")
	}
	if err.Error() != "profiles.create: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}

	// Wrapping twice keeps the innermost op.
	again := Wrap("profiles.bulk_import", err)
	var pe *PersistenceError
	if !errors.As(again, &pe) || pe.Op != "profiles.create" {
		t.Errorf("expected op to stay profiles.create, got %v", again)
	}
}

func TestWrap_NotFoundPassesThrough(t *testing.T) {
	nf := NotFound("profile", "abc")
	err := Wrap("profiles.delete", nf)
	if IsPersistence(err) {
		t.Error("not-found must not become a PersistenceError")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected ErrNotFound")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrNotFound, true},
		{"wrapped sentinel", fmt.Errorf("x: %w", ErrNotFound), true},
		{"driver no documents", mongo.ErrNoDocuments, true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"birth_month": "must be between 1 and 12",
		"last_name":   "required",
	}}
	want := "validation failed: birth_month: must be between 1 and 12; last_name: required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	ve, ok := AsValidation(fmt.Errorf("submit: %w", err))
	if !ok || len(ve.Fields) != 2 {
		t.Errorf("AsValidation failed: %v %v", ve, ok)
	}
}
