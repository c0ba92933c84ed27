package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry. Quantity is always an unsigned
// magnitude; direction is implied by the type, not the sign.
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
	TransactionInterest TransactionType = "interest"
)

// Valid reports whether the type is one of the supported ledger entry types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend, TransactionInterest:
		return true
	}
	return false
}

// InvestmentTransaction is an append-only ledger entry for one asset.
type InvestmentTransaction struct {
	ID          string `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	AssetID     string `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;index"`
	HouseholdID string `json:"household_id" gorm:"column:household_id;type:varchar(255);not null;index"`
	MemberID    string `json:"member_id" gorm:"column:member_id;type:varchar(255);not null"`

	Type         TransactionType  `json:"transaction_type" gorm:"column:transaction_type;type:varchar(20);not null;index"`
	Quantity     decimal.Decimal  `json:"quantity" gorm:"column:quantity;type:decimal(30,18);not null"`
	Date         time.Time        `json:"date" gorm:"column:date;type:timestamptz;not null;index"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit" gorm:"column:price_per_unit;type:decimal(30,18);not null"`
	Fees         *decimal.Decimal `json:"fees,omitempty" gorm:"column:fees;type:decimal(30,18)"`
	Note         *string          `json:"note,omitempty" gorm:"column:note;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

// TableName returns the table name for the InvestmentTransaction model
func (InvestmentTransaction) TableName() string {
	return "investment_transactions"
}

// Validate validates the transaction data
func (t *InvestmentTransaction) Validate() error {
	if t.AssetID == "" {
		return errors.New("asset_id is required")
	}
	if !t.Type.Valid() {
		return errors.New("transaction_type must be buy, sell, dividend, or interest")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	if !t.Quantity.IsPositive() {
		return errors.New("quantity must be positive")
	}
	if t.PricePerUnit.IsNegative() {
		return errors.New("price_per_unit must be non-negative")
	}
	if t.Fees != nil && t.Fees.IsNegative() {
		return errors.New("fees must be non-negative")
	}
	return nil
}

// FeesOrZero returns the fee amount, defaulting to zero when absent.
func (t *InvestmentTransaction) FeesOrZero() decimal.Decimal {
	if t.Fees == nil {
		return decimal.Zero
	}
	return *t.Fees
}
