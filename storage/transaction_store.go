package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/plotvest/plotvest/models"
)

const transactionColumns = `id, user_id, property_id, transaction_type, shares_amount,
	amount_in_rupees, crypto_amount, exchange_rate, idempotency_key,
	transaction_hash, status, failure_reason, created_at, updated_at`

// CreatePurchase atomically reserves inventory and appends the pending
// ledger record. Reservation and append commit together: no code path can
// leave sold_shares incremented without a pending-or-later transaction row.
// A duplicate idempotency key rolls the whole unit back (reservation
// included) and surfaces as ErrDuplicateKey.
func (d *DB) CreatePurchase(ctx context.Context, t *models.Transaction) error {
	return d.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := reserveShares(ctx, tx, t.PropertyID, t.SharesAmount); err != nil {
			return err
		}
		query := `
			INSERT INTO transactions (user_id, property_id, transaction_type, shares_amount,
				amount_in_rupees, crypto_amount, exchange_rate, idempotency_key, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`
		err := tx.QueryRowxContext(ctx, query,
			t.UserID, t.PropertyID, t.Type, t.SharesAmount,
			t.AmountInRupees, t.CryptoAmount, t.ExchangeRate, t.IdempotencyKey,
			models.TransactionPending,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return translate(err)
		}
		t.Status = models.TransactionPending
		return nil
	})
}

// FinalizePurchase settles a pending transaction in one unit of work: wallet
// debit, pending->completed transition and PropertyShare accumulation all
// commit or all roll back. Returns ErrInsufficientFunds when the wallet
// cannot cover the crypto amount, and ErrConflict when the transaction is no
// longer pending (e.g. the recovery sweep already failed it).
func (d *DB) FinalizePurchase(ctx context.Context, t *models.Transaction) error {
	return d.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := debitWallet(ctx, tx, t.UserID, t.CryptoAmount); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3`,
			t.ID, models.TransactionCompleted, models.TransactionPending)
		if err != nil {
			return translate(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return translate(err)
		} else if n == 0 {
			return models.ErrConflict
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_property_shares
				(user_id, property_id, shares_owned, investment_amount, crypto_invested)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, property_id) DO UPDATE SET
				shares_owned = user_property_shares.shares_owned + EXCLUDED.shares_owned,
				investment_amount = user_property_shares.investment_amount + EXCLUDED.investment_amount,
				crypto_invested = user_property_shares.crypto_invested + EXCLUDED.crypto_invested,
				purchase_date = NOW(),
				updated_at = NOW()`,
			t.UserID, t.PropertyID, t.SharesAmount, t.AmountInRupees, t.CryptoAmount)
		if err != nil {
			return translate(err)
		}

		t.Status = models.TransactionCompleted
		return nil
	})
}

// FailPurchase marks a pending transaction failed and releases its
// reservation in the same unit of work. The pending->failed compare-and-swap
// makes the compensation exclusive: when the purchase flow and the recovery
// sweep race, only the winner releases inventory. Losing the swap returns
// ErrConflict.
func (d *DB) FailPurchase(ctx context.Context, t *models.Transaction, reason string) error {
	return d.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET status = $2, failure_reason = $3, updated_at = NOW()
			WHERE id = $1 AND status = $4`,
			t.ID, models.TransactionFailed, reason, models.TransactionPending)
		if err != nil {
			return translate(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return translate(err)
		} else if n == 0 {
			return models.ErrConflict
		}
		if err := releaseShares(ctx, tx, t.PropertyID, t.SharesAmount); err != nil {
			return err
		}
		t.Status = models.TransactionFailed
		t.FailureReason = reason
		return nil
	})
}

// GetTransaction returns a single ledger record by ID.
func (d *DB) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var t models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if err := d.GetContext(ctx, &t, query, id); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// GetTransactionByKey returns the user's ledger record created under the
// given idempotency key, if any. Keys are scoped per user: the same key
// supplied by different users names different transactions, and no user can
// read another's record through a key collision.
func (d *DB) GetTransactionByKey(ctx context.Context, userID int64, key string) (*models.Transaction, error) {
	var t models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND idempotency_key = $2`
	if err := d.GetContext(ctx, &t, query, userID, key); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListUserTransactions returns the user's ledger records, newest first.
func (d *DB) ListUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var ts []models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := d.SelectContext(ctx, &ts, query, userID); err != nil {
		return nil, translate(err)
	}
	return ts, nil
}

// ExpiredPending returns pending transactions created before the cutoff.
// These have lost their owning request (crash or abandoned client) and must
// be failed with their reservation released.
func (d *DB) ExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error) {
	var ts []models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE status = $1 AND created_at < $2 ORDER BY created_at LIMIT $3`
	if err := d.SelectContext(ctx, &ts, query, models.TransactionPending, cutoff, limit); err != nil {
		return nil, translate(err)
	}
	return ts, nil
}
