package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes purchases from disposals.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// TransactionStatus is the transaction state machine:
// pending (initial) -> completed | failed. Terminal states are immutable.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Terminal reports whether the status allows no further transitions.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionCompleted || s == TransactionFailed
}

// Transaction is one record in the append-only investment ledger.
// ExchangeRate is the INR-per-crypto rate snapshotted when the request was
// submitted; it never changes afterwards, even if the live rate moves.
type Transaction struct {
	ID              int64             `db:"id" json:"id"`
	UserID          int64             `db:"user_id" json:"userId"`
	PropertyID      int64             `db:"property_id" json:"propertyId"`
	Type            TransactionType   `db:"transaction_type" json:"transactionType"`
	SharesAmount    int64             `db:"shares_amount" json:"sharesAmount"`
	AmountInRupees  decimal.Decimal   `db:"amount_in_rupees" json:"amountInRupees"`
	CryptoAmount    decimal.Decimal   `db:"crypto_amount" json:"cryptoAmount"`
	ExchangeRate    decimal.Decimal   `db:"exchange_rate" json:"exchangeRate"`
	IdempotencyKey  string            `db:"idempotency_key" json:"idempotencyKey,omitempty"`
	TransactionHash *string           `db:"transaction_hash" json:"transactionHash,omitempty"`
	Status          TransactionStatus `db:"status" json:"status"`
	FailureReason   string            `db:"failure_reason" json:"failureReason,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updatedAt"`
}
