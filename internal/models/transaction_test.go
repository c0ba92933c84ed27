package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionTypeValid(t *testing.T) {
	assert.True(t, TransactionBuy.Valid())
	assert.True(t, TransactionSell.Valid())
	assert.True(t, TransactionDividend.Valid())
	assert.True(t, TransactionInterest.Valid())
	assert.False(t, TransactionType("transfer").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestInvestmentTransactionValidate(t *testing.T) {
	negative := decimal.NewFromInt(-1)

	valid := func() *InvestmentTransaction {
		return &InvestmentTransaction{
			AssetID:      "asset-1",
			Type:         TransactionBuy,
			Quantity:     decimal.NewFromInt(10),
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			PricePerUnit: decimal.NewFromInt(5),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*InvestmentTransaction)
		wantErr string
	}{
		{name: "valid", mutate: func(tx *InvestmentTransaction) {}},
		{name: "missing asset", mutate: func(tx *InvestmentTransaction) { tx.AssetID = "" }, wantErr: "asset_id is required"},
		{name: "bad type", mutate: func(tx *InvestmentTransaction) { tx.Type = "swap" }, wantErr: "transaction_type must be buy, sell, dividend, or interest"},
		{name: "zero date", mutate: func(tx *InvestmentTransaction) { tx.Date = time.Time{} }, wantErr: "date is required"},
		{name: "zero quantity", mutate: func(tx *InvestmentTransaction) { tx.Quantity = decimal.Zero }, wantErr: "quantity must be positive"},
		{name: "negative quantity", mutate: func(tx *InvestmentTransaction) { tx.Quantity = negative }, wantErr: "quantity must be positive"},
		{name: "negative price", mutate: func(tx *InvestmentTransaction) { tx.PricePerUnit = negative }, wantErr: "price_per_unit must be non-negative"},
		{name: "negative fees", mutate: func(tx *InvestmentTransaction) { tx.Fees = &negative }, wantErr: "fees must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(tx)
			err := tx.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestFeesOrZero(t *testing.T) {
	tx := &InvestmentTransaction{}
	assert.True(t, tx.FeesOrZero().IsZero())

	fees := decimal.NewFromFloat(1.5)
	tx.Fees = &fees
	assert.True(t, tx.FeesOrZero().Equal(fees))
}
