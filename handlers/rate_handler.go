package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
	"github.com/plotvest/plotvest/services"
)

// RateAPI exposes the exchange-rate snapshot and its admin update.
type RateAPI interface {
	Snapshot() (services.RateSnapshot, error)
	Update(rate decimal.Decimal) error
}

// RateHandler serves the INR-per-crypto exchange rate.
type RateHandler struct {
	Service RateAPI
}

// NewRateHandler creates the handler.
func NewRateHandler(s RateAPI) *RateHandler {
	return &RateHandler{Service: s}
}

// Get returns the current rate snapshot.
// GET /api/rate
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type updateRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// Update replaces the rate. Admin only.
// PUT /api/rate
func (h *RateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}
	if err := h.Service.Update(req.Rate); err != nil {
		writeError(w, err)
		return
	}
	snap, err := h.Service.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
