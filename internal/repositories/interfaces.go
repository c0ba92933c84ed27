package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/casafin/casafin/internal/models"
)

// AssetRepository defines the interface for asset data operations
type AssetRepository interface {
	// WithTx returns a repository bound to an open transaction so a service
	// can compose multiple repository calls atomically.
	WithTx(tx *gorm.DB) AssetRepository

	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	// GetByIDForUpdate locks the asset row for the remainder of the enclosing
	// transaction, serializing concurrent ledger writers on the same asset.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Asset, error)
	ListByHousehold(ctx context.Context, householdID string) ([]*models.Asset, error)
	ListByMember(ctx context.Context, memberID string) ([]*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

// TransactionRepository defines the interface for ledger entry operations
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository

	Create(ctx context.Context, entry *models.InvestmentTransaction) error
	GetByID(ctx context.Context, id string) (*models.InvestmentTransaction, error)
	ListByAsset(ctx context.Context, assetID string) ([]*models.InvestmentTransaction, error)
	Update(ctx context.Context, entry *models.InvestmentTransaction) error
	Delete(ctx context.Context, id string) error
	DeleteByAsset(ctx context.Context, assetID string) error
}

// ValuationRepository defines the interface for valuation snapshot operations
type ValuationRepository interface {
	WithTx(tx *gorm.DB) ValuationRepository

	Create(ctx context.Context, snapshot *models.ValuationSnapshot) error
	ListByAsset(ctx context.Context, assetID string) ([]*models.ValuationSnapshot, error)
	// GetLatest returns the snapshot with the maximum date (ties broken by
	// most recently created), or nil when the asset has no snapshots.
	GetLatest(ctx context.Context, assetID string) (*models.ValuationSnapshot, error)
	DeleteByAsset(ctx context.Context, assetID string) error
}
