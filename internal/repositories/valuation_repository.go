package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafin/casafin/internal/db"
	"github.com/casafin/casafin/internal/models"
)

type valuationRepository struct {
	db *gorm.DB
}

// NewValuationRepository creates a new valuation repository
func NewValuationRepository(database *db.DB) ValuationRepository {
	return &valuationRepository{db: database.DB}
}

func (r *valuationRepository) WithTx(tx *gorm.DB) ValuationRepository {
	return &valuationRepository{db: tx}
}

func (r *valuationRepository) Create(ctx context.Context, snapshot *models.ValuationSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create valuation: %w", err)
	}
	return nil
}

func (r *valuationRepository) ListByAsset(ctx context.Context, assetID string) ([]*models.ValuationSnapshot, error) {
	var snapshots []*models.ValuationSnapshot
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("date DESC, created_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return snapshots, nil
}

func (r *valuationRepository) GetLatest(ctx context.Context, assetID string) (*models.ValuationSnapshot, error) {
	var snapshot models.ValuationSnapshot
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("date DESC, created_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest valuation: %w", err)
	}
	return &snapshot, nil
}

func (r *valuationRepository) DeleteByAsset(ctx context.Context, assetID string) error {
	if err := r.db.WithContext(ctx).Where("asset_id = ?", assetID).Delete(&models.ValuationSnapshot{}).Error; err != nil {
		return fmt.Errorf("failed to delete valuations for asset: %w", err)
	}
	return nil
}
