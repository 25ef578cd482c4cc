package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
)

// RateSnapshot is an exchange-rate observation (rupees per crypto unit) taken
// at a known time. Purchases store the snapshot immutably on the transaction.
type RateSnapshot struct {
	Rate    decimal.Decimal `json:"rate"`
	TakenAt time.Time       `json:"takenAt"`
}

// RateSource supplies the rate snapshot used to price a purchase.
type RateSource interface {
	Snapshot() (RateSnapshot, error)
}

// RateService holds the current exchange rate and refuses to serve it once
// it is older than maxAge. A maxAge of zero disables the staleness check.
type RateService struct {
	mu        sync.RWMutex
	rate      decimal.Decimal
	updatedAt time.Time
	maxAge    time.Duration

	now func() time.Time
}

// NewRateService seeds the service with an initial rate.
func NewRateService(initial decimal.Decimal, maxAge time.Duration) *RateService {
	return &RateService{
		rate:      initial,
		updatedAt: time.Now(),
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Snapshot returns the current rate, or ErrStaleRate when the last update is
// older than the configured maximum age.
func (s *RateService) Snapshot() (RateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.maxAge > 0 && s.now().Sub(s.updatedAt) > s.maxAge {
		return RateSnapshot{}, fmt.Errorf("%w: last update %s", models.ErrStaleRate, s.updatedAt.Format(time.RFC3339))
	}
	return RateSnapshot{Rate: s.rate, TakenAt: s.updatedAt}, nil
}

// Update replaces the current rate. Non-positive rates are rejected.
func (s *RateService) Update(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.IsZero() {
		return fmt.Errorf("%w: exchange rate must be positive", models.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
	s.updatedAt = s.now()
	return nil
}
