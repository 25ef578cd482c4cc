package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DepositWatcher polls unconfirmed deposits in the background until they are
// credited or expire. It is the successor of a chain subscription: polling
// GetTransaction keeps the flow correct even when the submit-time
// confirmation attempt raced ahead of finalization.
type DepositWatcher struct {
	wallets  *WalletService
	log      *logrus.Logger
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewDepositWatcher creates a watcher polling at the given interval.
func NewDepositWatcher(wallets *WalletService, log *logrus.Logger, interval time.Duration) *DepositWatcher {
	return &DepositWatcher{
		wallets:  wallets,
		log:      log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins polling in a background goroutine.
func (w *DepositWatcher) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop halts polling and waits for an in-flight pass to finish.
func (w *DepositWatcher) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

func (w *DepositWatcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), w.interval)
			if n, err := w.wallets.ConfirmPending(ctx); err != nil {
				w.log.WithError(err).Error("deposit confirmation pass failed")
			} else if n > 0 {
				w.log.WithField("confirmed", n).Info("credited deposits")
			}
			cancel()
		}
	}
}
