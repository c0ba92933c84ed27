package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Valuation snapshot sources.
const (
	ValuationSourceInitial = "initial"
	ValuationSourceManual  = "manual"
)

// ValuationSnapshot is a dated observation of per-unit value for an asset,
// independent of its transaction ledger. The latest snapshot is the one with
// the maximum date; ties are broken by insertion order.
type ValuationSnapshot struct {
	ID           string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	AssetID      string          `json:"asset_id" gorm:"column:asset_id;type:varchar(255);not null;index"`
	PerUnitValue decimal.Decimal `json:"valuation" gorm:"column:per_unit_value;type:decimal(30,18);not null"`
	Source       string          `json:"source" gorm:"column:source;type:varchar(50);not null;default:'manual'"`
	Date         time.Time       `json:"date" gorm:"column:date;type:timestamptz;not null;index"`
	CreatedAt    time.Time       `json:"created_at" gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}

// TableName returns the table name for the ValuationSnapshot model
func (ValuationSnapshot) TableName() string {
	return "investment_valuations"
}

// Validate validates the valuation data
func (v *ValuationSnapshot) Validate() error {
	if v.AssetID == "" {
		return errors.New("asset_id is required")
	}
	if v.PerUnitValue.IsNegative() {
		return errors.New("valuation must be non-negative")
	}
	if v.Source == "" {
		return errors.New("source is required")
	}
	if v.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
