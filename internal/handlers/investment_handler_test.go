package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/casafin/casafin/internal/errors"
	"github.com/casafin/casafin/internal/models"
	"github.com/casafin/casafin/internal/services"
)

// mockInvestmentService lets each test stub just the methods it exercises.
type mockInvestmentService struct {
	createAssetFn         func(ctx context.Context, householdID, memberID string, input *services.CreateAssetInput) (*models.Asset, error)
	getAssetDetailFn      func(ctx context.Context, id string) (*services.AssetDetail, error)
	listByHouseholdFn     func(ctx context.Context, householdID string) ([]*services.AssetWithMetrics, error)
	createTransactionFn   func(ctx context.Context, assetID string, input *services.CreateTransactionInput) (*models.InvestmentTransaction, error)
	deleteTransactionFn   func(ctx context.Context, id string) error
	getPortfolioSummaryFn func(ctx context.Context, householdID string) (*models.PortfolioSummary, error)
	recalculateQuantityFn func(ctx context.Context, assetID string) (decimal.Decimal, error)
}

func (m *mockInvestmentService) CreateAsset(ctx context.Context, householdID, memberID string, input *services.CreateAssetInput) (*models.Asset, error) {
	return m.createAssetFn(ctx, householdID, memberID, input)
}

func (m *mockInvestmentService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	return nil, &apperrors.ErrNotFound{Resource: "asset", ID: id}
}

func (m *mockInvestmentService) GetAssetDetail(ctx context.Context, id string) (*services.AssetDetail, error) {
	return m.getAssetDetailFn(ctx, id)
}

func (m *mockInvestmentService) ListAssetsByHousehold(ctx context.Context, householdID string) ([]*services.AssetWithMetrics, error) {
	return m.listByHouseholdFn(ctx, householdID)
}

func (m *mockInvestmentService) ListAssetsByMember(ctx context.Context, memberID string) ([]*services.AssetWithMetrics, error) {
	return nil, nil
}

func (m *mockInvestmentService) UpdateAsset(ctx context.Context, id string, input *services.UpdateAssetInput) (*models.Asset, error) {
	return nil, nil
}

func (m *mockInvestmentService) DeleteAsset(ctx context.Context, id string) error {
	return nil
}

func (m *mockInvestmentService) CreateTransaction(ctx context.Context, assetID string, input *services.CreateTransactionInput) (*models.InvestmentTransaction, error) {
	return m.createTransactionFn(ctx, assetID, input)
}

func (m *mockInvestmentService) ListTransactions(ctx context.Context, assetID string) ([]*models.InvestmentTransaction, error) {
	return nil, nil
}

func (m *mockInvestmentService) UpdateTransaction(ctx context.Context, id string, input *services.UpdateTransactionInput) (*models.InvestmentTransaction, error) {
	return nil, nil
}

func (m *mockInvestmentService) DeleteTransaction(ctx context.Context, id string) error {
	return m.deleteTransactionFn(ctx, id)
}

func (m *mockInvestmentService) RecalculateQuantity(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return m.recalculateQuantityFn(ctx, assetID)
}

func (m *mockInvestmentService) CreateValuation(ctx context.Context, assetID string, perUnitValue decimal.Decimal, date time.Time, source string) (*models.ValuationSnapshot, error) {
	return nil, nil
}

func (m *mockInvestmentService) ListValuations(ctx context.Context, assetID string) ([]*models.ValuationSnapshot, error) {
	return nil, nil
}

func (m *mockInvestmentService) GetAssetMetrics(ctx context.Context, assetID string) (*models.AssetMetrics, error) {
	return nil, nil
}

func (m *mockInvestmentService) GetPortfolioSummary(ctx context.Context, householdID string) (*models.PortfolioSummary, error) {
	return m.getPortfolioSummaryFn(ctx, householdID)
}

func newTestRouter(service services.InvestmentService) *mux.Router {
	h := NewInvestmentHandler(service)
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/investments/household/{householdID}", h.HandleHouseholdAssets).Methods(http.MethodGet)
	api.HandleFunc("/investments/household/{householdID}/portfolio", h.HandlePortfolioSummary).Methods(http.MethodGet)
	api.HandleFunc("/investments/household/{householdID}/member/{memberID}", h.HandleCreateAsset).Methods(http.MethodPost)
	api.HandleFunc("/investments/transactions/{transactionID}", h.HandleTransaction).Methods(http.MethodPatch, http.MethodDelete)
	api.HandleFunc("/investments/{assetID}", h.HandleAsset).Methods(http.MethodGet, http.MethodPatch, http.MethodDelete)
	api.HandleFunc("/investments/{assetID}/transactions", h.HandleAssetTransactions).Methods(http.MethodGet, http.MethodPost)
	api.HandleFunc("/investments/{assetID}/recalculate", h.HandleRecalculateQuantity).Methods(http.MethodPost)
	return router
}

func TestHandleCreateAsset(t *testing.T) {
	var gotHousehold, gotMember string
	var gotInput *services.CreateAssetInput

	mock := &mockInvestmentService{
		createAssetFn: func(ctx context.Context, householdID, memberID string, input *services.CreateAssetInput) (*models.Asset, error) {
			gotHousehold, gotMember, gotInput = householdID, memberID, input
			return &models.Asset{
				ID:          "asset-1",
				HouseholdID: householdID,
				MemberID:    memberID,
				Name:        input.Name,
				AssetType:   input.AssetType,
				Currency:    input.Currency,
				Quantity:    input.InitialQuantity,
			}, nil
		},
	}
	router := newTestRouter(mock)

	body := `{
		"name": "World ETF",
		"asset_type": "etf",
		"currency": "EUR",
		"initial_quantity": "10",
		"initial_price_per_unit": "5",
		"initial_date": "2024-01-15"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/investments/household/h1/member/m1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "h1", gotHousehold)
	assert.Equal(t, "m1", gotMember)
	require.NotNil(t, gotInput)
	assert.True(t, gotInput.InitialQuantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), gotInput.InitialDate)

	var asset models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	assert.Equal(t, "asset-1", asset.ID)
	assert.Equal(t, "etf", asset.AssetType.String())
}

func TestHandleCreateAsset_CustomType(t *testing.T) {
	mock := &mockInvestmentService{
		createAssetFn: func(ctx context.Context, householdID, memberID string, input *services.CreateAssetInput) (*models.Asset, error) {
			assert.True(t, input.AssetType.IsCustom())
			assert.Equal(t, "vintage watches", input.AssetType.String())
			return &models.Asset{ID: "asset-1", AssetType: input.AssetType}, nil
		},
	}
	router := newTestRouter(mock)

	body := `{
		"name": "Speedmaster",
		"asset_type": "custom",
		"custom_type": "vintage watches",
		"currency": "EUR",
		"initial_quantity": "1",
		"initial_price_per_unit": "4000",
		"initial_date": "2024-01-15"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/investments/household/h1/member/m1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHandleCreateAsset_BadDate(t *testing.T) {
	router := newTestRouter(&mockInvestmentService{})

	body := `{"name": "X", "asset_type": "stocks", "currency": "EUR", "initial_quantity": "1", "initial_price_per_unit": "1", "initial_date": "15/01/2024"}`
	req := httptest.NewRequest(http.MethodPost, "/api/investments/household/h1/member/m1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestHandleCreateTransaction_OversellReturns400(t *testing.T) {
	mock := &mockInvestmentService{
		createTransactionFn: func(ctx context.Context, assetID string, input *services.CreateTransactionInput) (*models.InvestmentTransaction, error) {
			return nil, &apperrors.ErrSellExceedsHoldings{
				Requested: decimal.NewFromInt(11),
				Available: decimal.NewFromInt(6),
			}
		},
	}
	router := newTestRouter(mock)

	body := `{"transaction_type": "sell", "quantity": "11", "price_per_unit": "5", "date": "2024-02-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/investments/asset-1/transactions", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only 6 available")
}

func TestHandleGetAssetDetail_NotFound(t *testing.T) {
	mock := &mockInvestmentService{
		getAssetDetailFn: func(ctx context.Context, id string) (*services.AssetDetail, error) {
			return nil, &apperrors.ErrNotFound{Resource: "asset", ID: id}
		},
	}
	router := newTestRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/investments/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "asset not found")
}

func TestHandleHouseholdAssets_OmitsUndefinedMetrics(t *testing.T) {
	mock := &mockInvestmentService{
		listByHouseholdFn: func(ctx context.Context, householdID string) ([]*services.AssetWithMetrics, error) {
			asset := &models.Asset{
				ID:        "asset-1",
				AssetType: models.KnownAssetType(models.AssetTypeStocks),
			}
			return []*services.AssetWithMetrics{{
				Asset: asset,
				Metrics: &models.AssetMetrics{
					AssetID:         asset.ID,
					AssetType:       asset.AssetType,
					CurrentQuantity: decimal.NewFromInt(10),
					TotalInvested:   decimal.NewFromInt(50),
					// no valuation yet: value and growth stay undefined
				},
			}}, nil
		},
	}
	router := newTestRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/investments/household/h1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Assets []struct {
			Metrics map[string]json.RawMessage `json:"metrics"`
		} `json:"assets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Assets, 1)

	metrics := payload.Assets[0].Metrics
	assert.Contains(t, metrics, "total_invested")
	assert.Contains(t, metrics, "is_fully_sold")
	// undefined metrics must be absent, not zero
	assert.NotContains(t, metrics, "current_value")
	assert.NotContains(t, metrics, "growth")
	assert.NotContains(t, metrics, "growth_percentage")
}

func TestHandlePortfolioSummary(t *testing.T) {
	mock := &mockInvestmentService{
		getPortfolioSummaryFn: func(ctx context.Context, householdID string) (*models.PortfolioSummary, error) {
			assert.Equal(t, "h1", householdID)
			return &models.PortfolioSummary{
				TotalInvested:    decimal.NewFromInt(100),
				CurrentValue:     decimal.NewFromInt(120),
				TotalGrowth:      decimal.NewFromInt(20),
				GrowthPercentage: decimal.NewFromInt(20),
				AssetsByType: map[string]*models.AssetTypeSummary{
					"stocks": {Count: 2, TotalInvested: decimal.NewFromInt(100), CurrentValue: decimal.NewFromInt(120), Growth: decimal.NewFromInt(20)},
				},
				TotalAssets:  2,
				ActiveAssets: 2,
			}, nil
		},
	}
	router := newTestRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/investments/household/h1/portfolio", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.PortfolioSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalAssets)
	assert.True(t, summary.GrowthPercentage.Equal(decimal.NewFromInt(20)))
	require.Contains(t, summary.AssetsByType, "stocks")
	assert.Equal(t, 2, summary.AssetsByType["stocks"].Count)
}

func TestHandleRecalculateQuantity(t *testing.T) {
	mock := &mockInvestmentService{
		recalculateQuantityFn: func(ctx context.Context, assetID string) (decimal.Decimal, error) {
			assert.Equal(t, "asset-1", assetID)
			return decimal.NewFromInt(6), nil
		},
	}
	router := newTestRouter(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/investments/asset-1/recalculate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]decimal.Decimal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload["quantity"].Equal(decimal.NewFromInt(6)))
}

func TestHandleDeleteTransaction(t *testing.T) {
	var deleted string
	mock := &mockInvestmentService{
		deleteTransactionFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	router := newTestRouter(mock)

	req := httptest.NewRequest(http.MethodDelete, "/api/investments/transactions/tx-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tx-1", deleted)

	var payload map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload["success"])
}
