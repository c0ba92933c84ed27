package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// HandlePortfolioSummary handles the household portfolio summary.
// @Summary Get portfolio summary
// @Description Aggregate every asset's metrics into a household summary bucketed by asset type
// @Tags investments
// @Produce json
// @Param householdID path string true "Household ID"
// @Success 200 {object} models.PortfolioSummary
// @Failure 500 {string} string "Internal server error"
// @Router /investments/household/{householdID}/portfolio [get]
func (h *InvestmentHandler) HandlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	householdID := mux.Vars(r)["householdID"]
	summary, err := h.service.GetPortfolioSummary(r.Context(), householdID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(summary)
}
