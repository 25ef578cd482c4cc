package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyShare is the derived ownership record for a (user, property) pair.
// It accumulates across completed buy transactions: SharesOwned in square
// feet, InvestmentAmount in rupees and CryptoInvested in the wallet's crypto
// unit. The transaction ledger, not this table, is the source of truth.
type PropertyShare struct {
	ID               int64           `db:"id" json:"id"`
	UserID           int64           `db:"user_id" json:"userId"`
	PropertyID       int64           `db:"property_id" json:"propertyId"`
	SharesOwned      int64           `db:"shares_owned" json:"sharesOwned"`
	InvestmentAmount decimal.Decimal `db:"investment_amount" json:"investmentAmount"`
	CryptoInvested   decimal.Decimal `db:"crypto_invested" json:"cryptoInvested"`
	PurchaseDate     time.Time       `db:"purchase_date" json:"purchaseDate"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}
