package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casafin/casafin/internal/models"
)

// CreateAssetInput carries everything needed to open a new holding. A new
// asset is always created together with its initial buy transaction and an
// initial valuation snapshot, atomically.
type CreateAssetInput struct {
	Name                string
	Symbol              *string
	AssetType           models.AssetType
	Currency            string
	InitialQuantity     decimal.Decimal
	InitialPricePerUnit decimal.Decimal
	InitialDate         time.Time
	InitialFees         *decimal.Decimal
}

// UpdateAssetInput carries optional patches for an asset; nil fields are left
// unchanged.
type UpdateAssetInput struct {
	Name      *string
	Symbol    *string
	AssetType *models.AssetType
}

// CreateTransactionInput carries a new ledger entry for an existing asset.
type CreateTransactionInput struct {
	Type         models.TransactionType
	Quantity     decimal.Decimal
	Date         time.Time
	PricePerUnit decimal.Decimal
	Fees         *decimal.Decimal
	Note         *string
}

// UpdateTransactionInput carries optional patches for a ledger entry; nil
// fields are left unchanged.
type UpdateTransactionInput struct {
	Type         *models.TransactionType
	Quantity     *decimal.Decimal
	Date         *time.Time
	PricePerUnit *decimal.Decimal
	Fees         *decimal.Decimal
	Note         *string
}

// AssetWithMetrics pairs an asset with its derived metrics.
type AssetWithMetrics struct {
	Asset   *models.Asset       `json:"asset"`
	Metrics *models.AssetMetrics `json:"metrics"`
}

// AssetDetail is the full view of one asset: metrics plus its ledger and
// valuation history.
type AssetDetail struct {
	Asset        *models.Asset                   `json:"asset"`
	Metrics      *models.AssetMetrics            `json:"metrics"`
	Transactions []*models.InvestmentTransaction `json:"transactions"`
	Valuations   []*models.ValuationSnapshot     `json:"valuations"`
}

// InvestmentService defines the interface for investment operations
type InvestmentService interface {
	CreateAsset(ctx context.Context, householdID, memberID string, input *CreateAssetInput) (*models.Asset, error)
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	GetAssetDetail(ctx context.Context, id string) (*AssetDetail, error)
	ListAssetsByHousehold(ctx context.Context, householdID string) ([]*AssetWithMetrics, error)
	ListAssetsByMember(ctx context.Context, memberID string) ([]*AssetWithMetrics, error)
	UpdateAsset(ctx context.Context, id string, input *UpdateAssetInput) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, assetID string, input *CreateTransactionInput) (*models.InvestmentTransaction, error)
	ListTransactions(ctx context.Context, assetID string) ([]*models.InvestmentTransaction, error)
	UpdateTransaction(ctx context.Context, id string, input *UpdateTransactionInput) (*models.InvestmentTransaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	RecalculateQuantity(ctx context.Context, assetID string) (decimal.Decimal, error)

	CreateValuation(ctx context.Context, assetID string, perUnitValue decimal.Decimal, date time.Time, source string) (*models.ValuationSnapshot, error)
	ListValuations(ctx context.Context, assetID string) ([]*models.ValuationSnapshot, error)

	GetAssetMetrics(ctx context.Context, assetID string) (*models.AssetMetrics, error)
	GetPortfolioSummary(ctx context.Context, householdID string) (*models.PortfolioSummary, error)
}
