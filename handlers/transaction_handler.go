package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plotvest/plotvest/models"
	"github.com/plotvest/plotvest/services"
)

// InvestmentAPI is the purchase-flow surface the handler needs.
type InvestmentAPI interface {
	Purchase(ctx context.Context, req services.PurchaseRequest) (*models.Transaction, error)
	Transaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	Transactions(ctx context.Context, userID int64) ([]models.Transaction, error)
}

// TransactionHandler serves the investment ledger. There is deliberately no
// status-update endpoint: transitions happen only inside the purchase flow
// and the recovery sweep.
type TransactionHandler struct {
	Service InvestmentAPI
}

// NewTransactionHandler creates the handler.
func NewTransactionHandler(s InvestmentAPI) *TransactionHandler {
	return &TransactionHandler{Service: s}
}

type createTransactionRequest struct {
	PropertyID   int64 `json:"propertyId"`
	SharesAmount int64 `json:"sharesAmount"`
	// IdempotencyKey lets the client retry safely after a timeout; the same
	// key always maps to the same transaction.
	IdempotencyKey string `json:"idempotencyKey"`
}

// Create executes a share purchase: reservation, ledger append, wallet debit
// and ownership update as one guarded flow. Amounts and the exchange-rate
// snapshot are computed server-side; client-supplied figures are not
// trusted.
// POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	t, err := h.Service.Purchase(r.Context(), services.PurchaseRequest{
		UserID:         user.ID,
		PropertyID:     req.PropertyID,
		Units:          req.SharesAmount,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		// A settlement rejection still produced a terminal ledger record;
		// return it alongside the rejection status.
		if t != nil && errors.Is(err, models.ErrInsufficientFunds) {
			writeJSON(w, http.StatusConflict, t)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Get returns one of the caller's transactions.
// GET /api/transactions/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: transaction id must be numeric", models.ErrInvalidInput))
		return
	}
	t, err := h.Service.Transaction(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// List returns the caller's transactions, newest first.
// GET /api/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	ts, err := h.Service.Transactions(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if ts == nil {
		ts = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, ts)
}
