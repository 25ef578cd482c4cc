package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
)

const depositColumns = `id, user_id, signature, amount, status, created_at, confirmed_at`

// CreateDeposit records a submitted on-chain transfer. The signature is
// unique, so resubmitting the same transfer returns ErrDuplicateKey instead
// of a second row.
func (d *DB) CreateDeposit(ctx context.Context, dep *models.Deposit) error {
	query := `
		INSERT INTO deposits (user_id, signature, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := d.QueryRowxContext(ctx, query,
		dep.UserID, dep.Signature, dep.Amount, models.DepositPending,
	).Scan(&dep.ID, &dep.CreatedAt)
	if err != nil {
		return translate(err)
	}
	dep.Status = models.DepositPending
	return nil
}

// GetDepositBySignature returns the deposit recorded for a signature.
func (d *DB) GetDepositBySignature(ctx context.Context, signature string) (*models.Deposit, error) {
	var dep models.Deposit
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE signature = $1`
	if err := d.GetContext(ctx, &dep, query, signature); err != nil {
		return nil, translate(err)
	}
	return &dep, nil
}

// ListUserDeposits returns the user's deposits, newest first.
func (d *DB) ListUserDeposits(ctx context.Context, userID int64) ([]models.Deposit, error) {
	var deps []models.Deposit
	query := `SELECT ` + depositColumns + ` FROM deposits
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	if err := d.SelectContext(ctx, &deps, query, userID); err != nil {
		return nil, translate(err)
	}
	return deps, nil
}

// PendingDeposits returns unconfirmed deposits for the watcher, oldest first.
func (d *DB) PendingDeposits(ctx context.Context, limit int) ([]models.Deposit, error) {
	var deps []models.Deposit
	query := `SELECT ` + depositColumns + ` FROM deposits
		WHERE status = $1 ORDER BY created_at LIMIT $2`
	if err := d.SelectContext(ctx, &deps, query, models.DepositPending, limit); err != nil {
		return nil, translate(err)
	}
	return deps, nil
}

// ConfirmDeposit credits the wallet and marks the deposit confirmed in one
// unit of work. The pending->confirmed compare-and-swap guarantees the
// credit happens at most once even if the submit path and the watcher
// confirm concurrently; the loser gets ErrConflict.
func (d *DB) ConfirmDeposit(ctx context.Context, dep *models.Deposit, amount decimal.Decimal) error {
	return d.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE deposits
			SET status = $2, amount = $3, confirmed_at = NOW()
			WHERE id = $1 AND status = $4`,
			dep.ID, models.DepositConfirmed, amount, models.DepositPending)
		if err != nil {
			return translate(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return translate(err)
		} else if n == 0 {
			return models.ErrConflict
		}
		if err := creditWallet(ctx, tx, dep.UserID, amount); err != nil {
			return err
		}
		dep.Status = models.DepositConfirmed
		dep.Amount = amount
		return nil
	})
}

// FailDeposit marks a pending deposit failed; the wallet is untouched.
func (d *DB) FailDeposit(ctx context.Context, dep *models.Deposit) error {
	res, err := d.ExecContext(ctx, `
		UPDATE deposits SET status = $2 WHERE id = $1 AND status = $3`,
		dep.ID, models.DepositFailed, models.DepositPending)
	if err != nil {
		return translate(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return translate(err)
	} else if n == 0 {
		return models.ErrConflict
	}
	dep.Status = models.DepositFailed
	return nil
}
