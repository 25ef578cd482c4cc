package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a user's crypto balance. Exactly one wallet exists per user;
// the balance is mutated only by confirmed deposits (credit) and completed
// buy transactions (debit), and may never go negative.
type Wallet struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"userId"`
	WalletAddress string          `db:"wallet_address" json:"walletAddress"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	CryptoType    string          `db:"crypto_type" json:"cryptoType"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`

	// BalanceInRupees is derived from the current exchange rate when the
	// wallet is read; it is not stored.
	BalanceInRupees decimal.Decimal `db:"-" json:"balanceInRupees"`
}
