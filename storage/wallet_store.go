package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
)

const walletColumns = `id, user_id, wallet_address, balance, crypto_type, created_at, updated_at`

// GetWallet returns the user's wallet.
func (d *DB) GetWallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	var w models.Wallet
	query := `SELECT ` + walletColumns + ` FROM user_wallets WHERE user_id = $1`
	if err := d.GetContext(ctx, &w, query, userID); err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// GetOrCreateWallet returns the user's wallet, creating it with a zero
// balance and the supplied address on first access. Safe under concurrent
// first accesses: the losing insert falls through to the select.
func (d *DB) GetOrCreateWallet(ctx context.Context, userID int64, address, cryptoType string) (*models.Wallet, error) {
	_, err := d.ExecContext(ctx, `
		INSERT INTO user_wallets (user_id, wallet_address, crypto_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, address, cryptoType)
	if err != nil {
		return nil, translate(err)
	}
	return d.GetWallet(ctx, userID)
}

// debitWallet atomically withdraws amount from the wallet. The balance check
// and the decrement are a single conditional UPDATE, so two concurrent
// purchases can never overdraw a balance that was sufficient for only one.
func debitWallet(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE user_wallets
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2`,
		userID, amount)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM user_wallets WHERE user_id = $1)`, userID); err != nil {
			return translate(err)
		}
		if !exists {
			return fmt.Errorf("wallet for user %d: %w", userID, models.ErrNotFound)
		}
		return models.ErrInsufficientFunds
	}
	return nil
}

// creditWallet adds amount to the wallet balance.
func creditWallet(ctx context.Context, tx *sqlx.Tx, userID int64, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE user_wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1`,
		userID, amount)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return fmt.Errorf("wallet for user %d: %w", userID, models.ErrNotFound)
	}
	return nil
}

// CreditWallet adds amount to the wallet balance outside of a larger unit of
// work.
func (d *DB) CreditWallet(ctx context.Context, userID int64, amount decimal.Decimal) error {
	return d.inTx(ctx, func(tx *sqlx.Tx) error {
		return creditWallet(ctx, tx, userID, amount)
	})
}
