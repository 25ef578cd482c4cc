package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/plotvest/plotvest/models"
)

// InvestmentStore is the persistence surface the purchase flow needs. The
// concrete implementation (storage.DB) performs the capacity and balance
// checks as atomic conditional updates, which is what makes the flow safe
// under concurrent requests and across multiple server instances.
type InvestmentStore interface {
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	CreatePurchase(ctx context.Context, t *models.Transaction) error
	FinalizePurchase(ctx context.Context, t *models.Transaction) error
	FailPurchase(ctx context.Context, t *models.Transaction, reason string) error
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	GetTransactionByKey(ctx context.Context, userID int64, key string) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error)
}

// InvestmentService coordinates share purchases: it validates the request,
// reserves inventory, appends the pending ledger record, settles the wallet
// debit and drives the transaction to its terminal state, compensating the
// reservation when settlement fails.
type InvestmentService struct {
	store InvestmentStore
	rates RateSource
	log   *logrus.Logger

	maxAttempts int
	retryBase   time.Duration
}

// NewInvestmentService wires the purchase flow. maxAttempts bounds internal
// retries on transient contention; retryBase is the first backoff step and
// doubles per attempt.
func NewInvestmentService(store InvestmentStore, rates RateSource, log *logrus.Logger, maxAttempts int, retryBase time.Duration) *InvestmentService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if retryBase <= 0 {
		retryBase = 50 * time.Millisecond
	}
	return &InvestmentService{
		store:       store,
		rates:       rates,
		log:         log,
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
	}
}

// PurchaseRequest names the property and share quantity a user wants to buy.
// IdempotencyKey is client-supplied and scoped to the user; retrying with the
// same key returns the transaction created by the first attempt without
// reserving or debiting again. An empty key gets a server-generated one.
type PurchaseRequest struct {
	UserID         int64
	PropertyID     int64
	Units          int64
	IdempotencyKey string
}

// Purchase executes a buy end to end. On success the returned transaction is
// completed. On a settlement failure the transaction is returned in its
// failed state together with the causing error, and the reservation has been
// released. No partial outcomes escape: every pending record this method
// creates is driven to a terminal state or left for the recovery sweep.
func (s *InvestmentService) Purchase(ctx context.Context, req PurchaseRequest) (*models.Transaction, error) {
	if req.Units <= 0 {
		return nil, fmt.Errorf("%w: share quantity must be positive", models.ErrInvalidInput)
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	} else if prior, err := s.store.GetTransactionByKey(ctx, req.UserID, req.IdempotencyKey); err == nil {
		return prior, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	prop, err := s.store.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if req.Units < prop.MinShareSize {
		return nil, fmt.Errorf("%w: minimum purchase for this property is %d sqft", models.ErrInvalidInput, prop.MinShareSize)
	}

	snap, err := s.rates.Snapshot()
	if err != nil {
		return nil, err
	}
	rupees, crypto, err := Quote(req.Units, prop.PricePerSqft, snap.Rate)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		UserID:         req.UserID,
		PropertyID:     req.PropertyID,
		Type:           models.TransactionBuy,
		SharesAmount:   req.Units,
		AmountInRupees: rupees,
		CryptoAmount:   crypto,
		ExchangeRate:   snap.Rate,
		IdempotencyKey: req.IdempotencyKey,
	}

	// Reserve inventory and append the pending ledger record (one unit of
	// work in the store). A duplicate key means a concurrent request with
	// the same key won the race; hand back its transaction.
	if err := s.withRetry(ctx, func() error { return s.store.CreatePurchase(ctx, t) }); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return s.store.GetTransactionByKey(ctx, req.UserID, req.IdempotencyKey)
		}
		return nil, err
	}

	// Settle: debit the wallet, complete the transaction and accumulate the
	// ownership record, atomically.
	err = s.withRetry(ctx, func() error { return s.store.FinalizePurchase(ctx, t) })
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"transaction": t.ID,
			"user":        t.UserID,
			"property":    t.PropertyID,
			"sqft":        t.SharesAmount,
		}).Info("purchase completed")
		return t, nil
	}

	// Settlement failed: release the reservation and record the failure. If
	// the compare-and-swap loses (the recovery sweep got there first), the
	// sweep has already compensated.
	reason := "settlement failed"
	if errors.Is(err, models.ErrInsufficientFunds) {
		reason = "insufficient wallet balance"
	}
	if failErr := s.store.FailPurchase(ctx, t, reason); failErr != nil && !errors.Is(failErr, models.ErrConflict) {
		s.log.WithError(failErr).WithField("transaction", t.ID).
			Error("could not release reservation; recovery sweep will retry")
	}
	return t, err
}

// Transaction returns a single ledger record, restricted to its owner.
func (s *InvestmentService) Transaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, models.ErrNotFound
	}
	return t, nil
}

// Transactions lists the user's ledger records.
func (s *InvestmentService) Transactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.store.ListUserTransactions(ctx, userID)
}

// withRetry runs op up to maxAttempts times, backing off exponentially on
// transient conflicts. Any other error aborts immediately. The final
// conflict escapes to the caller rather than hanging forever.
func (s *InvestmentService) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryBase << (attempt - 1)):
			}
		}
		if err = op(); err == nil || !errors.Is(err, models.ErrConflict) {
			return err
		}
	}
	return err
}
