package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plotvest/plotvest/models"
)

const sweepBatchSize = 100

// Sweeper is the recovery path for transactions whose owning request died
// between reservation and settlement: any transaction still pending after
// the timeout is forced to failed and its reservation released. Without this
// sweep an abandoned purchase would consume inventory forever.
type Sweeper struct {
	store    InvestmentStore
	log      *logrus.Logger
	timeout  time.Duration
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewSweeper creates a sweeper that runs every interval and fails pending
// transactions older than timeout.
func NewSweeper(store InvestmentStore, log *logrus.Logger, timeout, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		log:      log,
		timeout:  timeout,
		interval: interval,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start begins the periodic sweep in a background goroutine.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop halts the sweep loop and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.WithError(err).Error("pending-transaction sweep failed")
			}
			cancel()
		}
	}
}

// SweepOnce fails every pending transaction older than the timeout,
// releasing its reservation. Returns the number of transactions swept.
// Losing the pending->failed swap to a concurrent settlement is not an
// error: the transaction found its owner after all.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.timeout)
	expired, err := s.store.ExpiredPending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range expired {
		t := &expired[i]
		err := s.store.FailPurchase(ctx, t, "expired: pending past timeout")
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		if err != nil {
			return swept, err
		}
		swept++
		s.log.WithFields(logrus.Fields{
			"transaction": t.ID,
			"property":    t.PropertyID,
			"sqft":        t.SharesAmount,
			"age":         s.now().Sub(t.CreatedAt).String(),
		}).Warn("swept expired pending transaction")
	}
	return swept, nil
}
