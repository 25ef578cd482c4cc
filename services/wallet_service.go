package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/plotvest/plotvest/models"
)

// WalletStore is the persistence surface for wallets and deposits.
type WalletStore interface {
	GetWallet(ctx context.Context, userID int64) (*models.Wallet, error)
	GetOrCreateWallet(ctx context.Context, userID int64, address, cryptoType string) (*models.Wallet, error)
	CreateDeposit(ctx context.Context, dep *models.Deposit) error
	GetDepositBySignature(ctx context.Context, signature string) (*models.Deposit, error)
	ListUserDeposits(ctx context.Context, userID int64) ([]models.Deposit, error)
	PendingDeposits(ctx context.Context, limit int) ([]models.Deposit, error)
	ConfirmDeposit(ctx context.Context, dep *models.Deposit, amount decimal.Decimal) error
	FailDeposit(ctx context.Context, dep *models.Deposit) error
}

// WalletService owns wallet reads and the deposit flow that credits them.
// Credits happen exactly once per on-chain signature; the chain, not the
// client, decides the amount.
type WalletService struct {
	store      WalletStore
	chain      ChainVerifier
	rates      RateSource
	log        *logrus.Logger
	cryptoType string

	// depositTimeout bounds how long an unconfirmable deposit stays pending
	// before the watcher fails it.
	depositTimeout time.Duration
}

// NewWalletService wires wallet reads and deposits.
func NewWalletService(store WalletStore, chain ChainVerifier, rates RateSource, log *logrus.Logger, cryptoType string, depositTimeout time.Duration) *WalletService {
	return &WalletService{
		store:          store,
		chain:          chain,
		rates:          rates,
		log:            log,
		cryptoType:     cryptoType,
		depositTimeout: depositTimeout,
	}
}

// Wallet returns the user's wallet, creating it on first access. The address
// keypair is generated only when no wallet row exists yet; the private key is
// never stored. The rupee equivalent of the balance is derived from the
// current exchange rate; when the rate is stale the crypto balance is still
// served and the rupee figure is left at zero.
func (s *WalletService) Wallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	w, err := s.store.GetWallet(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		address := solana.NewWallet().PublicKey().String()
		w, err = s.store.GetOrCreateWallet(ctx, userID, address, s.cryptoType)
	}
	if err != nil {
		return nil, err
	}
	if snap, err := s.rates.Snapshot(); err == nil {
		w.BalanceInRupees = w.Balance.Mul(snap.Rate).Round(rupeePrecision)
	} else {
		s.log.WithError(err).Warn("serving wallet without rupee conversion")
	}
	return w, nil
}

// SubmitDeposit records a claimed on-chain transfer and attempts to confirm
// it immediately. Resubmitting the same signature returns the original
// deposit; a signature claimed by another user is rejected.
func (s *WalletService) SubmitDeposit(ctx context.Context, userID int64, signature string) (*models.Deposit, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: transaction signature is required", models.ErrInvalidInput)
	}

	// The wallet must exist before a confirmation can credit it.
	if _, err := s.Wallet(ctx, userID); err != nil {
		return nil, err
	}

	dep := &models.Deposit{UserID: userID, Signature: signature}
	if err := s.store.CreateDeposit(ctx, dep); err != nil {
		if !errors.Is(err, models.ErrDuplicateKey) {
			return nil, err
		}
		prior, err := s.store.GetDepositBySignature(ctx, signature)
		if err != nil {
			return nil, err
		}
		if prior.UserID != userID {
			return nil, fmt.Errorf("%w: signature already claimed", models.ErrInvalidInput)
		}
		return prior, nil
	}

	if err := s.tryConfirm(ctx, dep); err != nil {
		return dep, err
	}
	return dep, nil
}

// Deposits lists the user's deposit history.
func (s *WalletService) Deposits(ctx context.Context, userID int64) ([]models.Deposit, error) {
	return s.store.ListUserDeposits(ctx, userID)
}

// ConfirmPending drives unconfirmed deposits forward: confirmable ones are
// credited, permanently invalid or expired ones are failed, the rest stay
// pending for the next pass. Returns the number credited.
func (s *WalletService) ConfirmPending(ctx context.Context) (int, error) {
	pending, err := s.store.PendingDeposits(ctx, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for i := range pending {
		dep := &pending[i]
		if err := s.tryConfirm(ctx, dep); err != nil {
			s.log.WithError(err).WithField("signature", dep.Signature).Warn("deposit rejected")
			continue
		}
		if dep.Status == models.DepositConfirmed {
			confirmed++
			continue
		}
		if s.depositTimeout > 0 && time.Since(dep.CreatedAt) > s.depositTimeout {
			if err := s.store.FailDeposit(ctx, dep); err != nil && !errors.Is(err, models.ErrConflict) {
				return confirmed, err
			}
			s.log.WithField("signature", dep.Signature).Warn("deposit expired unconfirmed")
		}
	}
	return confirmed, nil
}

// tryConfirm verifies the deposit on chain and credits the wallet when the
// transfer is finalized. Permanently invalid deposits are failed and the
// verification error is returned; a not-yet-visible transfer is not an
// error.
func (s *WalletService) tryConfirm(ctx context.Context, dep *models.Deposit) error {
	amount, finalized, err := s.chain.VerifyDeposit(ctx, dep.Signature)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			if failErr := s.store.FailDeposit(ctx, dep); failErr != nil && !errors.Is(failErr, models.ErrConflict) {
				return failErr
			}
		}
		return err
	}
	if !finalized {
		return nil
	}
	if err := s.store.ConfirmDeposit(ctx, dep, amount); err != nil {
		// Losing the swap means another path already credited this deposit.
		if errors.Is(err, models.ErrConflict) {
			return nil
		}
		return err
	}
	s.log.WithFields(logrus.Fields{
		"user":      dep.UserID,
		"amount":    amount.String(),
		"signature": dep.Signature,
	}).Info("deposit confirmed")
	return nil
}
