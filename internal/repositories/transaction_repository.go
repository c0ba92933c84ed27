package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafin/casafin/internal/db"
	apperrors "github.com/casafin/casafin/internal/errors"
	"github.com/casafin/casafin/internal/models"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(database *db.DB) TransactionRepository {
	return &transactionRepository{db: database.DB}
}

func (r *transactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepository{db: tx}
}

func (r *transactionRepository) Create(ctx context.Context, entry *models.InvestmentTransaction) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.InvestmentTransaction, error) {
	var entry models.InvestmentTransaction
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperrors.ErrNotFound{Resource: "transaction", ID: id}
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &entry, nil
}

func (r *transactionRepository) ListByAsset(ctx context.Context, assetID string) ([]*models.InvestmentTransaction, error) {
	var entries []*models.InvestmentTransaction
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, nil
}

func (r *transactionRepository) Update(ctx context.Context, entry *models.InvestmentTransaction) error {
	if entry == nil || entry.ID == "" {
		return &apperrors.ErrValidation{Field: "id", Message: "transaction id is required"}
	}

	result := r.db.WithContext(ctx).Model(&models.InvestmentTransaction{}).Where("id = ?", entry.ID).Updates(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Resource: "transaction", ID: entry.ID}
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InvestmentTransaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperrors.ErrNotFound{Resource: "transaction", ID: id}
	}
	return nil
}

func (r *transactionRepository) DeleteByAsset(ctx context.Context, assetID string) error {
	if err := r.db.WithContext(ctx).Where("asset_id = ?", assetID).Delete(&models.InvestmentTransaction{}).Error; err != nil {
		return fmt.Errorf("failed to delete transactions for asset: %w", err)
	}
	return nil
}
