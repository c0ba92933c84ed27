package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	apperrors "github.com/casafin/casafin/internal/errors"
	"github.com/casafin/casafin/internal/models"
	"github.com/casafin/casafin/internal/services"
)

const dateLayout = "2006-01-02"

type InvestmentHandler struct {
	service services.InvestmentService
}

func NewInvestmentHandler(service services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var notFound *apperrors.ErrNotFound
	var validation *apperrors.ErrValidation
	var oversell *apperrors.ErrSellExceedsHoldings

	switch {
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &validation), errors.As(err, &oversell):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type createAssetRequest struct {
	Name                string           `json:"name"`
	Symbol              *string          `json:"symbol"`
	AssetType           string           `json:"asset_type"`
	CustomType          *string          `json:"custom_type"`
	Currency            string           `json:"currency"`
	InitialQuantity     decimal.Decimal  `json:"initial_quantity"`
	InitialPricePerUnit decimal.Decimal  `json:"initial_price_per_unit"`
	InitialDate         string           `json:"initial_date"`
	InitialFees         *decimal.Decimal `json:"initial_fees"`
}

type updateAssetRequest struct {
	Name       *string `json:"name"`
	Symbol     *string `json:"symbol"`
	AssetType  *string `json:"asset_type"`
	CustomType *string `json:"custom_type"`
}

// resolveAssetType collapses the asset_type/custom_type pair the same way the
// storage layer does: a "custom" type takes its label from custom_type.
func resolveAssetType(assetType string, customType *string) models.AssetType {
	if assetType == "custom" && customType != nil && *customType != "" {
		return models.CustomAssetType(*customType)
	}
	return models.ParseAssetType(assetType)
}

// HandleHouseholdAssets handles listing a household's assets with metrics.
// @Summary List household assets
// @Description Get all investment assets for a household with computed metrics
// @Tags investments
// @Produce json
// @Param householdID path string true "Household ID"
// @Success 200 {array} services.AssetWithMetrics
// @Failure 500 {string} string "Internal server error"
// @Router /investments/household/{householdID} [get]
func (h *InvestmentHandler) HandleHouseholdAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	householdID := mux.Vars(r)["householdID"]
	assets, err := h.service.ListAssetsByHousehold(r.Context(), householdID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"assets": assets})
}

// HandleCreateAsset handles creating a new asset with its initial buy.
// @Summary Create asset
// @Description Create a new investment asset with an initial BUY transaction and valuation snapshot
// @Tags investments
// @Accept json
// @Produce json
// @Param householdID path string true "Household ID"
// @Param memberID path string true "Member ID"
// @Success 201 {object} models.Asset
// @Failure 400 {string} string "Invalid request"
// @Failure 500 {string} string "Internal server error"
// @Router /investments/household/{householdID}/member/{memberID} [post]
func (h *InvestmentHandler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)

	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	initialDate, err := time.Parse(dateLayout, req.InitialDate)
	if err != nil {
		http.Error(w, "Invalid initial_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	asset, err := h.service.CreateAsset(r.Context(), vars["householdID"], vars["memberID"], &services.CreateAssetInput{
		Name:                req.Name,
		Symbol:              req.Symbol,
		AssetType:           resolveAssetType(req.AssetType, req.CustomType),
		Currency:            req.Currency,
		InitialQuantity:     req.InitialQuantity,
		InitialPricePerUnit: req.InitialPricePerUnit,
		InitialDate:         initialDate,
		InitialFees:         req.InitialFees,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// HandleAsset handles item-level operations for an asset.
// @Summary Get, update, or delete an asset
// @Description Get asset detail (with ledger and valuations), patch asset fields, or delete the asset and everything under it
// @Tags investments
// @Accept json
// @Produce json
// @Param assetID path string true "Asset ID"
// @Success 200 {object} services.AssetDetail
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal server error"
// @Router /investments/{assetID} [get]
// @Router /investments/{assetID} [patch]
// @Router /investments/{assetID} [delete]
func (h *InvestmentHandler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	assetID := mux.Vars(r)["assetID"]

	switch r.Method {
	case http.MethodGet:
		h.getAssetDetail(w, r, assetID)
	case http.MethodPatch:
		h.updateAsset(w, r, assetID)
	case http.MethodDelete:
		h.deleteAsset(w, r, assetID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) getAssetDetail(w http.ResponseWriter, r *http.Request, assetID string) {
	detail, err := h.service.GetAssetDetail(r.Context(), assetID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(detail)
}

func (h *InvestmentHandler) updateAsset(w http.ResponseWriter, r *http.Request, assetID string) {
	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	input := &services.UpdateAssetInput{
		Name:   req.Name,
		Symbol: req.Symbol,
	}
	if req.AssetType != nil {
		resolved := resolveAssetType(*req.AssetType, req.CustomType)
		input.AssetType = &resolved
	}

	asset, err := h.service.UpdateAsset(r.Context(), assetID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(asset)
}

func (h *InvestmentHandler) deleteAsset(w http.ResponseWriter, r *http.Request, assetID string) {
	if err := h.service.DeleteAsset(r.Context(), assetID); err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
