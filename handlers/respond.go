package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plotvest/plotvest/models"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Rejections
// carry a stable machine-readable code so the client can branch without
// parsing messages.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, models.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, models.ErrInsufficientInventory):
		status, code = http.StatusConflict, "INSUFFICIENT_INVENTORY"
	case errors.Is(err, models.ErrInsufficientFunds):
		status, code = http.StatusConflict, "INSUFFICIENT_FUNDS"
	case errors.Is(err, models.ErrDuplicateKey):
		status, code = http.StatusConflict, "DUPLICATE"
	case errors.Is(err, models.ErrStaleRate):
		status, code = http.StatusServiceUnavailable, "STALE_RATE"
	case errors.Is(err, models.ErrConflict):
		status, code = http.StatusServiceUnavailable, "CONFLICT"
	case errors.Is(err, models.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, "UNAVAILABLE"
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}
