package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/casafin/casafin/internal/models"
	"github.com/casafin/casafin/internal/services"
)

type createTransactionRequest struct {
	TransactionType string           `json:"transaction_type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Date            string           `json:"date"`
	PricePerUnit    decimal.Decimal  `json:"price_per_unit"`
	Fees            *decimal.Decimal `json:"fees"`
	Note            *string          `json:"note"`
}

type updateTransactionRequest struct {
	TransactionType *string          `json:"transaction_type"`
	Quantity        *decimal.Decimal `json:"quantity"`
	Date            *string          `json:"date"`
	PricePerUnit    *decimal.Decimal `json:"price_per_unit"`
	Fees            *decimal.Decimal `json:"fees"`
	Note            *string          `json:"note"`
}

// HandleAssetTransactions handles collection-level ledger operations.
// @Summary List or create ledger entries
// @Description Get the transaction ledger for an asset or append a new entry
// @Tags transactions
// @Accept json
// @Produce json
// @Param assetID path string true "Asset ID"
// @Success 200 {array} models.InvestmentTransaction
// @Failure 400 {string} string "Invalid request"
// @Failure 404 {string} string "Asset not found"
// @Failure 500 {string} string "Internal server error"
// @Router /investments/{assetID}/transactions [get]
// @Router /investments/{assetID}/transactions [post]
func (h *InvestmentHandler) HandleAssetTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	assetID := mux.Vars(r)["assetID"]

	switch r.Method {
	case http.MethodGet:
		h.listTransactions(w, r, assetID)
	case http.MethodPost:
		h.createTransaction(w, r, assetID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) listTransactions(w http.ResponseWriter, r *http.Request, assetID string) {
	transactions, err := h.service.ListTransactions(r.Context(), assetID)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"transactions": transactions})
}

func (h *InvestmentHandler) createTransaction(w http.ResponseWriter, r *http.Request, assetID string) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	entry, err := h.service.CreateTransaction(r.Context(), assetID, &services.CreateTransactionInput{
		Type:         models.TransactionType(req.TransactionType),
		Quantity:     req.Quantity,
		Date:         date,
		PricePerUnit: req.PricePerUnit,
		Fees:         req.Fees,
		Note:         req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// HandleTransaction handles item-level ledger operations.
// @Summary Update or delete a ledger entry
// @Description Patch or remove a single transaction; the owning asset's cached quantity is refreshed atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} models.InvestmentTransaction
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal server error"
// @Router /investments/transactions/{transactionID} [patch]
// @Router /investments/transactions/{transactionID} [delete]
func (h *InvestmentHandler) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	transactionID := mux.Vars(r)["transactionID"]

	switch r.Method {
	case http.MethodPatch:
		h.updateTransaction(w, r, transactionID)
	case http.MethodDelete:
		h.deleteTransaction(w, r, transactionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InvestmentHandler) updateTransaction(w http.ResponseWriter, r *http.Request, transactionID string) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	input := &services.UpdateTransactionInput{
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		Fees:         req.Fees,
		Note:         req.Note,
	}
	if req.TransactionType != nil {
		txType := models.TransactionType(*req.TransactionType)
		input.Type = &txType
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		input.Date = &date
	}

	entry, err := h.service.UpdateTransaction(r.Context(), transactionID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(entry)
}

func (h *InvestmentHandler) deleteTransaction(w http.ResponseWriter, r *http.Request, transactionID string) {
	if err := h.service.DeleteTransaction(r.Context(), transactionID); err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// HandleRecalculateQuantity handles an explicit cached-quantity recompute.
// @Summary Recompute cached quantity
// @Description Recompute the asset's cached quantity from the full ledger and persist it
// @Tags transactions
// @Produce json
// @Param assetID path string true "Asset ID"
// @Success 200 {object} map[string]string
// @Failure 404 {string} string "Asset not found"
// @Failure 500 {string} string "Internal server error"
// @Router /investments/{assetID}/recalculate [post]
func (h *InvestmentHandler) HandleRecalculateQuantity(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	assetID := mux.Vars(r)["assetID"]
	quantity, err := h.service.RecalculateQuantity(r.Context(), assetID)
	if err != nil {
		writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]decimal.Decimal{"quantity": quantity})
}
