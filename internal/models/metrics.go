package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CurrentQuantity returns the ledger total for an asset: total bought minus
// total sold, independent of date ordering. Dividend and interest entries do
// not move the holding size. The result can go negative when an earlier buy
// is edited or deleted after a sell was recorded; callers surface that state
// rather than correcting it.
func CurrentQuantity(txs []*InvestmentTransaction) decimal.Decimal {
	qty := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case TransactionBuy:
			qty = qty.Add(t.Quantity)
		case TransactionSell:
			qty = qty.Sub(t.Quantity)
		}
	}
	return qty
}

// CostBasis returns the net cash committed to a holding: buys accumulate
// quantity*price plus fees, sells accumulate quantity*price minus fees, and
// the basis is buys minus sells. Fees default to zero when absent. This is an
// aggregate average, not per-lot accounting.
func CostBasis(txs []*InvestmentTransaction) decimal.Decimal {
	buyTotal := decimal.Zero
	sellTotal := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case TransactionBuy:
			buyTotal = buyTotal.Add(t.Quantity.Mul(t.PricePerUnit).Add(t.FeesOrZero()))
		case TransactionSell:
			sellTotal = sellTotal.Add(t.Quantity.Mul(t.PricePerUnit).Sub(t.FeesOrZero()))
		}
	}
	return buyTotal.Sub(sellTotal)
}

// AssetMetrics holds the derived state for one asset. CurrentValue, Growth,
// GrowthPercentage and the latest-valuation fields are nil when undefined;
// they are never coerced to zero, since a synthetic zero would mislead
// downstream aggregation.
type AssetMetrics struct {
	AssetID   string    `json:"asset_id"`
	AssetType AssetType `json:"asset_type"`

	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	TotalInvested   decimal.Decimal `json:"total_invested"`

	CurrentValue     *decimal.Decimal `json:"current_value,omitempty"`
	Growth           *decimal.Decimal `json:"growth,omitempty"`
	GrowthPercentage *decimal.Decimal `json:"growth_percentage,omitempty"`

	LatestValuationPerUnit *decimal.Decimal `json:"latest_valuation_per_unit,omitempty"`
	LatestValuationDate    *time.Time       `json:"latest_valuation_date,omitempty"`

	IsFullySold bool `json:"is_fully_sold"`
}

// ComputeAssetMetrics folds an asset's ledger and latest valuation snapshot
// into derived metrics. latest may be nil when no snapshot exists yet.
//
// CurrentValue is defined only when a snapshot exists and the current
// quantity is positive. Growth and GrowthPercentage additionally require a
// positive cost basis, so a fully-sold asset whose proceeds exceeded cost
// reports them as undefined instead of dividing by a non-positive basis.
func ComputeAssetMetrics(asset *Asset, txs []*InvestmentTransaction, latest *ValuationSnapshot) *AssetMetrics {
	currentQty := CurrentQuantity(txs)
	totalInvested := CostBasis(txs)

	m := &AssetMetrics{
		AssetID:         asset.ID,
		AssetType:       asset.AssetType,
		CurrentQuantity: currentQty,
		TotalInvested:   totalInvested,
		IsFullySold:     currentQty.LessThanOrEqual(decimal.Zero),
	}

	if latest != nil {
		perUnit := latest.PerUnitValue
		date := latest.Date
		m.LatestValuationPerUnit = &perUnit
		m.LatestValuationDate = &date

		if currentQty.IsPositive() {
			value := perUnit.Mul(currentQty)
			m.CurrentValue = &value

			if totalInvested.IsPositive() {
				growth := value.Sub(totalInvested)
				pct := growth.Div(totalInvested).Mul(oneHundred)
				m.Growth = &growth
				m.GrowthPercentage = &pct
			}
		}
	}

	return m
}

// AssetTypeSummary aggregates per-asset metrics within one type bucket.
type AssetTypeSummary struct {
	Count         int             `json:"count"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	Growth        decimal.Decimal `json:"growth"`
}

// PortfolioSummary is the household-wide aggregation of per-asset metrics.
// Unlike AssetMetrics, every field is always populated: an asset without a
// defined current value contributes zero to the totals (its cost basis still
// counts), and GrowthPercentage defaults to zero when nothing was invested.
type PortfolioSummary struct {
	TotalInvested    decimal.Decimal              `json:"total_invested"`
	CurrentValue     decimal.Decimal              `json:"current_value"`
	TotalGrowth      decimal.Decimal              `json:"total_growth"`
	GrowthPercentage decimal.Decimal              `json:"growth_percentage"`
	AssetsByType     map[string]*AssetTypeSummary `json:"assets_by_type"`
	TotalAssets      int                          `json:"total_assets"`
	ActiveAssets     int                          `json:"active_assets"`
	SoldAssets       int                          `json:"sold_assets"`
}

// ComputePortfolioSummary folds per-asset metrics into a household summary,
// bucketed by the stored asset type string (custom labels included).
// TotalGrowth is recomputed at the aggregate level rather than summed from
// per-asset growth, so assets with undefined growth do not distort it.
func ComputePortfolioSummary(metrics []*AssetMetrics) *PortfolioSummary {
	summary := &PortfolioSummary{
		TotalInvested: decimal.Zero,
		CurrentValue:  decimal.Zero,
		AssetsByType:  make(map[string]*AssetTypeSummary),
	}

	for _, m := range metrics {
		summary.TotalInvested = summary.TotalInvested.Add(m.TotalInvested)
		if m.CurrentValue != nil {
			summary.CurrentValue = summary.CurrentValue.Add(*m.CurrentValue)
		}

		if m.IsFullySold {
			summary.SoldAssets++
		} else {
			summary.ActiveAssets++
		}

		typeLabel := m.AssetType.String()
		bucket, ok := summary.AssetsByType[typeLabel]
		if !ok {
			bucket = &AssetTypeSummary{
				TotalInvested: decimal.Zero,
				CurrentValue:  decimal.Zero,
				Growth:        decimal.Zero,
			}
			summary.AssetsByType[typeLabel] = bucket
		}
		bucket.Count++
		bucket.TotalInvested = bucket.TotalInvested.Add(m.TotalInvested)
		if m.CurrentValue != nil {
			bucket.CurrentValue = bucket.CurrentValue.Add(*m.CurrentValue)
		}
		if m.Growth != nil {
			bucket.Growth = bucket.Growth.Add(*m.Growth)
		}
	}

	summary.TotalAssets = len(metrics)
	summary.TotalGrowth = summary.CurrentValue.Sub(summary.TotalInvested)
	if summary.TotalInvested.IsPositive() {
		summary.GrowthPercentage = summary.TotalGrowth.Div(summary.TotalInvested).Mul(oneHundred)
	} else {
		summary.GrowthPercentage = decimal.Zero
	}

	return summary
}
