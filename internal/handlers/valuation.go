package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createValuationRequest struct {
	Valuation decimal.Decimal `json:"valuation"`
	Date      string          `json:"date"`
	Source    string          `json:"source"`
}

// HandleAssetValuations handles valuation snapshot operations for an asset.
// @Summary List or create valuation snapshots
// @Description Get an asset's valuation history or record a new per-unit observation
// @Tags valuations
// @Accept json
// @Produce json
// @Param assetID path string true "Asset ID"
// @Success 200 {array} models.ValuationSnapshot
// @Failure 400 {string} string "Invalid request"
// @Failure 404 {string} string "Asset not found"
// @Failure 500 {string} string "Internal server error"
// @Router /investments/{assetID}/valuations [get]
// @Router /investments/{assetID}/valuations [post]
func (h *InvestmentHandler) HandleAssetValuations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	assetID := mux.Vars(r)["assetID"]

	switch r.Method {
	case http.MethodGet:
		h.listValuations(w, r, assetID)
	case http.MethodPost:
		h.createValuation(w, r, assetID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) listValuations(w http.ResponseWriter, r *http.Request, assetID string) {
	valuations, err := h.service.ListValuations(r.Context(), assetID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"valuations": valuations})
}

func (h *InvestmentHandler) createValuation(w http.ResponseWriter, r *http.Request, assetID string) {
	var req createValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.CreateValuation(r.Context(), assetID, req.Valuation, date, req.Source)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(snapshot)
}
