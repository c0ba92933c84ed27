package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetType(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCustom bool
		wantLabel  string
	}{
		{name: "known stocks", input: "stocks", wantLabel: "stocks"},
		{name: "known real estate", input: "real_estate", wantLabel: "real_estate"},
		{name: "custom label", input: "vintage watches", wantCustom: true, wantLabel: "vintage watches"},
		{name: "near miss is custom", input: "Stocks", wantCustom: true, wantLabel: "Stocks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAssetType(tt.input)
			assert.Equal(t, tt.wantCustom, got.IsCustom())
			assert.Equal(t, tt.wantLabel, got.String())
		})
	}
}

func TestAssetTypeScanValue(t *testing.T) {
	var at AssetType
	require.NoError(t, at.Scan("crypto"))
	assert.False(t, at.IsCustom())
	assert.Equal(t, "crypto", at.String())

	v, err := at.Value()
	require.NoError(t, err)
	assert.Equal(t, "crypto", v)

	require.NoError(t, at.Scan([]byte("lego sets")))
	assert.True(t, at.IsCustom())
	assert.Equal(t, "lego sets", at.String())

	assert.Error(t, at.Scan(42))
}

func TestAssetTypeJSON(t *testing.T) {
	out, err := json.Marshal(KnownAssetType(AssetTypeETF))
	require.NoError(t, err)
	assert.Equal(t, `"etf"`, string(out))

	var at AssetType
	require.NoError(t, json.Unmarshal([]byte(`"wine"`), &at))
	assert.True(t, at.IsCustom())
	assert.Equal(t, "wine", at.String())
}

func TestAssetValidate(t *testing.T) {
	valid := func() *Asset {
		return &Asset{
			HouseholdID:   "h1",
			MemberID:      "m1",
			Name:          "World ETF",
			AssetType:     KnownAssetType(AssetTypeETF),
			Currency:      "EUR",
			Quantity:      decimal.NewFromInt(10),
			ValuationMode: ValuationModeManual,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Asset)
		wantErr string
	}{
		{name: "valid", mutate: func(a *Asset) {}},
		{name: "missing household", mutate: func(a *Asset) { a.HouseholdID = "" }, wantErr: "household_id is required"},
		{name: "missing member", mutate: func(a *Asset) { a.MemberID = "" }, wantErr: "member_id is required"},
		{name: "missing name", mutate: func(a *Asset) { a.Name = "" }, wantErr: "name is required"},
		{name: "missing currency", mutate: func(a *Asset) { a.Currency = "" }, wantErr: "currency is required"},
		{name: "bad valuation mode", mutate: func(a *Asset) { a.ValuationMode = "live" }, wantErr: "valuation_mode must be 'market' or 'manual'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}
