package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/plotvest/plotvest/models"
)

// WalletAPI is the wallet/deposit service surface the handler needs.
type WalletAPI interface {
	Wallet(ctx context.Context, userID int64) (*models.Wallet, error)
	SubmitDeposit(ctx context.Context, userID int64, signature string) (*models.Deposit, error)
	Deposits(ctx context.Context, userID int64) ([]models.Deposit, error)
}

// WalletHandler serves the authenticated user's wallet and deposits.
type WalletHandler struct {
	Service WalletAPI
}

// NewWalletHandler creates the handler.
func NewWalletHandler(s WalletAPI) *WalletHandler {
	return &WalletHandler{Service: s}
}

// Get returns the caller's wallet, creating it on first access.
// GET /api/wallet
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	wallet, err := h.Service.Wallet(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

type submitDepositRequest struct {
	Signature string `json:"signature"`
}

// SubmitDeposit records an on-chain transfer into the platform deposit
// account and credits the wallet once the transfer is finalized.
// POST /api/wallet/deposits
func (h *WalletHandler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var req submitDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}
	dep, err := h.Service.SubmitDeposit(r.Context(), user.ID, req.Signature)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, dep)
}

// ListDeposits returns the caller's deposit history.
// GET /api/wallet/deposits
func (h *WalletHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	deps, err := h.Service.Deposits(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if deps == nil {
		deps = []models.Deposit{}
	}
	writeJSON(w, http.StatusOK, deps)
}
