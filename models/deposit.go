package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus: pending -> confirmed | failed.
type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositConfirmed DepositStatus = "confirmed"
	DepositFailed    DepositStatus = "failed"
)

// Deposit records an on-chain transfer into the platform deposit account,
// submitted by the user as a transaction signature. The signature is unique,
// so a deposit can be credited at most once regardless of retries.
type Deposit struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"userId"`
	Signature   string          `db:"signature" json:"signature"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Status      DepositStatus   `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	ConfirmedAt *time.Time      `db:"confirmed_at" json:"confirmedAt,omitempty"`
}
