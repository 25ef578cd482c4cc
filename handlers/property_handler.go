package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
)

// PropertyStore is the persistence surface for listings.
type PropertyStore interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	CreateProperty(ctx context.Context, p *models.Property) error
}

// PropertyHandler serves the property marketplace endpoints.
type PropertyHandler struct {
	Store PropertyStore
}

// NewPropertyHandler creates the handler.
func NewPropertyHandler(store PropertyStore) *PropertyHandler {
	return &PropertyHandler{Store: store}
}

// List returns all listed properties.
// GET /api/properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.Store.ListProperties(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if props == nil {
		props = []models.Property{}
	}
	writeJSON(w, http.StatusOK, props)
}

// Get returns a single property.
// GET /api/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: property id must be numeric", models.ErrInvalidInput))
		return
	}
	prop, err := h.Store.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

type createPropertyRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Location     string          `json:"location"`
	TotalArea    int64           `json:"totalArea"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	PricePerSqft decimal.Decimal `json:"pricePerSqft"`
	MinShareSize int64           `json:"minShareSize"`
	TotalShares  int64           `json:"totalShares"`
	ImageURL     string          `json:"imageUrl"`
	PropertyType string          `json:"propertyType"`
}

// Create lists a new property. Admin only.
// POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}
	if req.Title == "" || req.Location == "" || req.PropertyType == "" {
		writeError(w, fmt.Errorf("%w: title, location and propertyType are required", models.ErrInvalidInput))
		return
	}
	if req.TotalShares <= 0 || req.TotalArea <= 0 {
		writeError(w, fmt.Errorf("%w: totalShares and totalArea must be positive", models.ErrInvalidInput))
		return
	}
	if req.MinShareSize <= 0 {
		req.MinShareSize = 1
	}
	if req.MinShareSize > req.TotalShares {
		writeError(w, fmt.Errorf("%w: minShareSize exceeds totalShares", models.ErrInvalidInput))
		return
	}
	if !req.PricePerSqft.IsPositive() {
		writeError(w, fmt.Errorf("%w: pricePerSqft must be positive", models.ErrInvalidInput))
		return
	}

	prop := models.Property{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		TotalArea:    req.TotalArea,
		TotalPrice:   req.TotalPrice,
		PricePerSqft: req.PricePerSqft,
		MinShareSize: req.MinShareSize,
		TotalShares:  req.TotalShares,
		ImageURL:     req.ImageURL,
		PropertyType: req.PropertyType,
	}
	if prop.TotalPrice.IsZero() {
		prop.TotalPrice = prop.PricePerSqft.Mul(decimal.NewFromInt(prop.TotalArea))
	}
	if err := h.Store.CreateProperty(r.Context(), &prop); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, prop)
}
