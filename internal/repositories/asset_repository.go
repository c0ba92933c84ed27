package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casafin/casafin/internal/db"
	apperrors "github.com/casafin/casafin/internal/errors"
	"github.com/casafin/casafin/internal/models"
)

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(database *db.DB) AssetRepository {
	return &assetRepository{db: database.DB}
}

func (r *assetRepository) WithTx(tx *gorm.DB) AssetRepository {
	return &assetRepository{db: tx}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	return r.getByID(ctx, id, false)
}

func (r *assetRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Asset, error) {
	return r.getByID(ctx, id, true)
}

func (r *assetRepository) getByID(ctx context.Context, id string, forUpdate bool) (*models.Asset, error) {
	query := r.db.WithContext(ctx)
	// sqlite has no row locks; its writers are serialized already
	if forUpdate && r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var asset models.Asset
	if err := query.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Resource: "asset", ID: id}
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

func (r *assetRepository) ListByHousehold(ctx context.Context, householdID string) ([]*models.Asset, error) {
	var assets []*models.Asset
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) ListByMember(ctx context.Context, memberID string) ([]*models.Asset, error) {
	var assets []*models.Asset
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (r *assetRepository) Update(ctx context.Context, asset *models.Asset) error {
	if asset == nil || asset.ID == "" {
		return &apperrors.ErrValidation{Field: "id", Message: "asset id is required"}
	}

	result := r.db.WithContext(ctx).Model(&models.Asset{}).Where("id = ?", asset.ID).Updates(asset)
	if result.Error != nil {
		return fmt.Errorf("failed to update asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Resource: "asset", ID: asset.ID}
	}
	return nil
}

func (r *assetRepository) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Asset{}).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update asset quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Resource: "asset", ID: id}
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Resource: "asset", ID: id}
	}
	return nil
}
