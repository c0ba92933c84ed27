package errors

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestErrValidationError(t *testing.T) {
	err := &ErrValidation{Field: "quantity", Message: "must be positive"}
	if got, want := err.Error(), "quantity: must be positive"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}

func TestErrNotFoundError(t *testing.T) {
	err := &ErrNotFound{Resource: "asset", ID: "abc-123"}
	if got, want := err.Error(), "asset not found: abc-123"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}

func TestErrSellExceedsHoldingsError(t *testing.T) {
	err := &ErrSellExceedsHoldings{
		Requested: decimal.NewFromInt(10),
		Available: decimal.NewFromInt(6),
	}
	if got, want := err.Error(), "cannot sell 10 units: only 6 available"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}
