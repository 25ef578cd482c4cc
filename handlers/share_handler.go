package handlers

import (
	"context"
	"net/http"

	"github.com/plotvest/plotvest/models"
)

// ShareStore reads the derived ownership records.
type ShareStore interface {
	ListUserShares(ctx context.Context, userID int64) ([]models.PropertyShare, error)
}

// ShareHandler serves the caller's portfolio holdings.
type ShareHandler struct {
	Store ShareStore
}

// NewShareHandler creates the handler.
func NewShareHandler(store ShareStore) *ShareHandler {
	return &ShareHandler{Store: store}
}

// List returns the caller's property shares.
// GET /api/shares
func (h *ShareHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := UserFrom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	shares, err := h.Store.ListUserShares(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if shares == nil {
		shares = []models.PropertyShare{}
	}
	writeJSON(w, http.StatusOK, shares)
}
