package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"validation", ErrValidation},
		{"insufficient stock", ErrInsufficientStock},
		{"illegal transition", ErrIllegalTransition},
		{"payment exists", ErrPaymentExists},
		{"forbidden", ErrForbidden},
		{"proof required", ErrProofRequired},
		{"storage", ErrStorageUnavailable},
		{"product in use", ErrProductInUse},
		{"tracking exhausted", ErrTrackingCodeExhausted},
		{"gate", ErrGateLocked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	v := NewValidationError()
	if v.OrNil() != nil {
		t.Fatal("empty validation error must collapse to nil")
	}

	v.Add("buyer_phone", "is required")
	v.Add("buyer_name", "is required")
	v.Add("buyer_name", "second message ignored")

	err := fmt.Errorf("checkout: %w", v.OrNil())
	if !stdErrors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var target *ValidationError
	if !stdErrors.As(err, &target) {
		t.Fatal("expected ValidationError in chain")
	}
	if target.Fields["buyer_name"] != "is required" {
		t.Fatalf("unexpected field message %q", target.Fields["buyer_name"])
	}
	if got := v.Error(); got != "validation failed: buyer_name: is required; buyer_phone: is required" {
		t.Fatalf("unexpected message %q", got)
	}

	var zero ValidationError
	zero.Add("x", "y")
	if zero.Empty() {
		t.Fatal("zero value must accept fields")
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := error(&InsufficientStockError{ProductID: 1, Name: "Brownies", Requested: 10, Available: 5})
	if !stdErrors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected ErrInsufficientStock")
	}
	if !strings.Contains(err.Error(), "Brownies") {
		t.Fatalf("message should name product: %q", err.Error())
	}

	unnamed := &InsufficientStockError{ProductID: 7, Requested: 2}
	if !strings.Contains(unnamed.Error(), "#7") {
		t.Fatalf("message should fall back to id: %q", unnamed.Error())
	}
}
