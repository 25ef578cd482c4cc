package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotvest/plotvest/models"
)

type stubPropertyStore struct {
	list   func(ctx context.Context) ([]models.Property, error)
	get    func(ctx context.Context, id int64) (*models.Property, error)
	create func(ctx context.Context, p *models.Property) error
}

func (s *stubPropertyStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	return s.list(ctx)
}

func (s *stubPropertyStore) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	return s.get(ctx, id)
}

func (s *stubPropertyStore) CreateProperty(ctx context.Context, p *models.Property) error {
	return s.create(ctx, p)
}

func propertyRouter(store PropertyStore) http.Handler {
	h := NewPropertyHandler(store)
	r := chi.NewRouter()
	r.Get("/api/properties", h.List)
	r.Get("/api/properties/{id}", h.Get)
	r.Post("/api/properties", h.Create)
	return r
}

func TestListPropertiesReturnsEmptyArrayNotNull(t *testing.T) {
	store := &stubPropertyStore{
		list: func(ctx context.Context) ([]models.Property, error) { return nil, nil },
	}
	rec := httptest.NewRecorder()
	propertyRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetPropertyNotFound(t *testing.T) {
	store := &stubPropertyStore{
		get: func(ctx context.Context, id int64) (*models.Property, error) {
			return nil, models.ErrNotFound
		},
	}
	rec := httptest.NewRecorder()
	propertyRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/42", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestGetPropertyRejectsNonNumericID(t *testing.T) {
	store := &stubPropertyStore{}
	rec := httptest.NewRecorder()
	propertyRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePropertyComputesTotalPrice(t *testing.T) {
	var created *models.Property
	store := &stubPropertyStore{
		create: func(ctx context.Context, p *models.Property) error {
			p.ID = 7
			created = p
			return nil
		},
	}
	body := `{
		"title": "Skyline Residency",
		"location": "Pune",
		"propertyType": "residential",
		"totalArea": 1200,
		"totalShares": 1200,
		"pricePerSqft": "850"
	}`
	rec := httptest.NewRecorder()
	propertyRouter(store).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.True(t, created.TotalPrice.Equal(decimal.NewFromInt(1020000)),
		"totalPrice = %s", created.TotalPrice)
	assert.Equal(t, int64(1), created.MinShareSize, "minShareSize defaults to 1")
}

func TestCreatePropertyValidation(t *testing.T) {
	store := &stubPropertyStore{
		create: func(ctx context.Context, p *models.Property) error {
			t.Fatal("store must not be reached on invalid input")
			return nil
		},
	}
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"location":"Pune","propertyType":"residential","totalArea":100,"totalShares":100,"pricePerSqft":"850"}`},
		{"zero shares", `{"title":"A","location":"Pune","propertyType":"residential","totalArea":100,"totalShares":0,"pricePerSqft":"850"}`},
		{"negative price", `{"title":"A","location":"Pune","propertyType":"residential","totalArea":100,"totalShares":100,"pricePerSqft":"-1"}`},
		{"min share above total", `{"title":"A","location":"Pune","propertyType":"residential","totalArea":100,"totalShares":100,"minShareSize":200,"pricePerSqft":"850"}`},
		{"malformed json", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			propertyRouter(store).ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, "/api/properties", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
