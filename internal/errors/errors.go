package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrNotFound signals that an operation targeted a nonexistent record.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// ErrSellExceedsHoldings is returned when a requested sell quantity exceeds
// the quantity currently held, computed from the ledger at creation time.
type ErrSellExceedsHoldings struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *ErrSellExceedsHoldings) Error() string {
	return fmt.Sprintf("cannot sell %s units: only %s available", e.Requested, e.Available)
}
