package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/casafin/casafin/internal/db"
	apperrors "github.com/casafin/casafin/internal/errors"
	"github.com/casafin/casafin/internal/models"
	"github.com/casafin/casafin/internal/repositories"
)

type investmentService struct {
	db            *db.DB
	assetRepo     repositories.AssetRepository
	txRepo        repositories.TransactionRepository
	valuationRepo repositories.ValuationRepository
}

// NewInvestmentService creates a new investment service
func NewInvestmentService(database *db.DB, assetRepo repositories.AssetRepository, txRepo repositories.TransactionRepository, valuationRepo repositories.ValuationRepository) InvestmentService {
	return &investmentService{
		db:            database,
		assetRepo:     assetRepo,
		txRepo:        txRepo,
		valuationRepo: valuationRepo,
	}
}

// CreateAsset creates an asset together with its initial buy transaction and
// an initial valuation snapshot in one database transaction.
func (s *investmentService) CreateAsset(ctx context.Context, householdID, memberID string, input *CreateAssetInput) (*models.Asset, error) {
	if !input.InitialQuantity.IsPositive() {
		return nil, &apperrors.ErrValidation{Field: "initial_quantity", Message: "must be positive"}
	}
	if input.InitialPricePerUnit.IsNegative() {
		return nil, &apperrors.ErrValidation{Field: "initial_price_per_unit", Message: "must be non-negative"}
	}

	asset := &models.Asset{
		HouseholdID:   householdID,
		MemberID:      memberID,
		Name:          input.Name,
		Symbol:        input.Symbol,
		AssetType:     input.AssetType,
		Currency:      input.Currency,
		Quantity:      input.InitialQuantity,
		ValuationMode: models.ValuationModeManual,
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("asset validation failed: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.assetRepo.WithTx(tx).Create(ctx, asset); err != nil {
			return err
		}

		initial := &models.InvestmentTransaction{
			AssetID:      asset.ID,
			HouseholdID:  householdID,
			MemberID:     memberID,
			Type:         models.TransactionBuy,
			Quantity:     input.InitialQuantity,
			Date:         input.InitialDate,
			PricePerUnit: input.InitialPricePerUnit,
			Fees:         input.InitialFees,
		}
		if err := initial.Validate(); err != nil {
			return fmt.Errorf("transaction validation failed: %w", err)
		}
		if err := s.txRepo.WithTx(tx).Create(ctx, initial); err != nil {
			return err
		}

		snapshot := &models.ValuationSnapshot{
			AssetID:      asset.ID,
			PerUnitValue: input.InitialPricePerUnit,
			Source:       models.ValuationSourceInitial,
			Date:         input.InitialDate,
		}
		return s.valuationRepo.WithTx(tx).Create(ctx, snapshot)
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

func (s *investmentService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

func (s *investmentService) GetAssetDetail(ctx context.Context, id string) (*AssetDetail, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.ListByAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	valuations, err := s.valuationRepo.ListByAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	var latest *models.ValuationSnapshot
	if len(valuations) > 0 {
		latest = valuations[0]
	}

	return &AssetDetail{
		Asset:        asset,
		Metrics:      models.ComputeAssetMetrics(asset, transactions, latest),
		Transactions: transactions,
		Valuations:   valuations,
	}, nil
}

func (s *investmentService) ListAssetsByHousehold(ctx context.Context, householdID string) ([]*AssetWithMetrics, error) {
	assets, err := s.assetRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return s.attachMetrics(ctx, assets)
}

func (s *investmentService) ListAssetsByMember(ctx context.Context, memberID string) ([]*AssetWithMetrics, error) {
	assets, err := s.assetRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.attachMetrics(ctx, assets)
}

func (s *investmentService) attachMetrics(ctx context.Context, assets []*models.Asset) ([]*AssetWithMetrics, error) {
	result := make([]*AssetWithMetrics, 0, len(assets))
	for _, asset := range assets {
		metrics, err := s.computeMetrics(ctx, asset)
		if err != nil {
			return nil, err
		}
		result = append(result, &AssetWithMetrics{Asset: asset, Metrics: metrics})
	}
	return result, nil
}

func (s *investmentService) UpdateAsset(ctx context.Context, id string, input *UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		asset.Name = *input.Name
	}
	if input.Symbol != nil {
		asset.Symbol = input.Symbol
	}
	if input.AssetType != nil {
		asset.AssetType = *input.AssetType
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("asset validation failed: %w", err)
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}
	return s.assetRepo.GetByID(ctx, id)
}

// DeleteAsset removes an asset and cascades to its transactions and
// valuation snapshots.
func (s *investmentService) DeleteAsset(ctx context.Context, id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.assetRepo.WithTx(tx).GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.txRepo.WithTx(tx).DeleteByAsset(ctx, id); err != nil {
			return err
		}
		if err := s.valuationRepo.WithTx(tx).DeleteByAsset(ctx, id); err != nil {
			return err
		}
		return s.assetRepo.WithTx(tx).Delete(ctx, id)
	})
}

// CreateTransaction appends a ledger entry and refreshes the asset's cached
// quantity in the same database transaction. Sells are validated against the
// quantity currently held; the check runs at creation time only, so later
// edits or deletes of other entries may still leave the ledger overdrawn.
func (s *investmentService) CreateTransaction(ctx context.Context, assetID string, input *CreateTransactionInput) (*models.InvestmentTransaction, error) {
	var entry *models.InvestmentTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := s.assetRepo.WithTx(tx).GetByIDForUpdate(ctx, assetID)
		if err != nil {
			return err
		}

		txRepo := s.txRepo.WithTx(tx)

		if input.Type == models.TransactionSell {
			ledger, err := txRepo.ListByAsset(ctx, assetID)
			if err != nil {
				return err
			}
			available := models.CurrentQuantity(ledger)
			if input.Quantity.GreaterThan(available) {
				return &apperrors.ErrSellExceedsHoldings{Requested: input.Quantity, Available: available}
			}
		}

		entry = &models.InvestmentTransaction{
			AssetID:      assetID,
			HouseholdID:  asset.HouseholdID,
			MemberID:     asset.MemberID,
			Type:         input.Type,
			Quantity:     input.Quantity,
			Date:         input.Date,
			PricePerUnit: input.PricePerUnit,
			Fees:         input.Fees,
			Note:         input.Note,
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("transaction validation failed: %w", err)
		}
		if err := txRepo.Create(ctx, entry); err != nil {
			return err
		}

		return s.refreshQuantity(ctx, tx, assetID)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *investmentService) ListTransactions(ctx context.Context, assetID string) ([]*models.InvestmentTransaction, error) {
	if _, err := s.assetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return s.txRepo.ListByAsset(ctx, assetID)
}

// UpdateTransaction patches a ledger entry and refreshes the asset's cached
// quantity. No oversell check runs here: an edit that overdraws the ledger is
// recorded as-is and surfaces as a negative current quantity.
func (s *investmentService) UpdateTransaction(ctx context.Context, id string, input *UpdateTransactionInput) (*models.InvestmentTransaction, error) {
	var entry *models.InvestmentTransaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.txRepo.WithTx(tx)

		var err error
		entry, err = txRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err := s.assetRepo.WithTx(tx).GetByIDForUpdate(ctx, entry.AssetID); err != nil {
			return err
		}

		if input.Type != nil {
			entry.Type = *input.Type
		}
		if input.Quantity != nil {
			entry.Quantity = *input.Quantity
		}
		if input.Date != nil {
			entry.Date = *input.Date
		}
		if input.PricePerUnit != nil {
			entry.PricePerUnit = *input.PricePerUnit
		}
		if input.Fees != nil {
			entry.Fees = input.Fees
		}
		if input.Note != nil {
			entry.Note = input.Note
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("transaction validation failed: %w", err)
		}
		entry.UpdatedAt = time.Now()

		if err := txRepo.Update(ctx, entry); err != nil {
			return err
		}

		return s.refreshQuantity(ctx, tx, entry.AssetID)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteTransaction removes a ledger entry and refreshes the asset's cached
// quantity in the same database transaction.
func (s *investmentService) DeleteTransaction(ctx context.Context, id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.txRepo.WithTx(tx)

		entry, err := txRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err := s.assetRepo.WithTx(tx).GetByIDForUpdate(ctx, entry.AssetID); err != nil {
			return err
		}

		if err := txRepo.Delete(ctx, id); err != nil {
			return err
		}

		return s.refreshQuantity(ctx, tx, entry.AssetID)
	})
}

// RecalculateQuantity recomputes the cached quantity from the full ledger and
// persists it. Calling it with no intervening ledger change is a no-op with
// the same result.
func (s *investmentService) RecalculateQuantity(ctx context.Context, assetID string) (decimal.Decimal, error) {
	var quantity decimal.Decimal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.assetRepo.WithTx(tx).GetByIDForUpdate(ctx, assetID); err != nil {
			return err
		}
		if err := s.refreshQuantity(ctx, tx, assetID); err != nil {
			return err
		}

		asset, err := s.assetRepo.WithTx(tx).GetByID(ctx, assetID)
		if err != nil {
			return err
		}
		quantity = asset.Quantity
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return quantity, nil
}

// refreshQuantity recomputes the cached quantity from the ledger as seen by
// the open transaction and writes it back. Negative results are persisted
// unchanged; the ledger is the source of truth, not the cache.
func (s *investmentService) refreshQuantity(ctx context.Context, tx *gorm.DB, assetID string) error {
	ledger, err := s.txRepo.WithTx(tx).ListByAsset(ctx, assetID)
	if err != nil {
		return err
	}
	return s.assetRepo.WithTx(tx).UpdateQuantity(ctx, assetID, models.CurrentQuantity(ledger))
}

func (s *investmentService) CreateValuation(ctx context.Context, assetID string, perUnitValue decimal.Decimal, date time.Time, source string) (*models.ValuationSnapshot, error) {
	if _, err := s.assetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	if source == "" {
		source = models.ValuationSourceManual
	}

	snapshot := &models.ValuationSnapshot{
		AssetID:      assetID,
		PerUnitValue: perUnitValue,
		Source:       source,
		Date:         date,
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("valuation validation failed: %w", err)
	}

	if err := s.valuationRepo.Create(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *investmentService) ListValuations(ctx context.Context, assetID string) ([]*models.ValuationSnapshot, error) {
	if _, err := s.assetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	return s.valuationRepo.ListByAsset(ctx, assetID)
}

func (s *investmentService) GetAssetMetrics(ctx context.Context, assetID string) (*models.AssetMetrics, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return s.computeMetrics(ctx, asset)
}

// computeMetrics always folds the full ledger; the cached Asset.Quantity is
// never an input here.
func (s *investmentService) computeMetrics(ctx context.Context, asset *models.Asset) (*models.AssetMetrics, error) {
	ledger, err := s.txRepo.ListByAsset(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	latest, err := s.valuationRepo.GetLatest(ctx, asset.ID)
	if err != nil {
		return nil, err
	}

	return models.ComputeAssetMetrics(asset, ledger, latest), nil
}

func (s *investmentService) GetPortfolioSummary(ctx context.Context, householdID string) (*models.PortfolioSummary, error) {
	assets, err := s.assetRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	metrics := make([]*models.AssetMetrics, 0, len(assets))
	for _, asset := range assets {
		m, err := s.computeMetrics(ctx, asset)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}

	return models.ComputePortfolioSummary(metrics), nil
}
