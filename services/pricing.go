package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
)

// Rupee amounts carry two decimal places; crypto amounts carry nine, matching
// the smallest on-chain unit (one lamport = 1e-9 SOL).
const (
	rupeePrecision  = 2
	cryptoPrecision = 9
)

// Quote converts a share quantity into the rupee price and the crypto amount
// due at the given exchange rate (rupees per crypto unit). All arithmetic is
// fixed-point decimal; binary floating point would drift between the stored
// rupee amount and the derived crypto amount.
func Quote(units int64, pricePerSqft, rate decimal.Decimal) (rupees, crypto decimal.Decimal, err error) {
	if units <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: units must be positive", models.ErrInvalidInput)
	}
	if pricePerSqft.IsNegative() || pricePerSqft.IsZero() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: price per sqft must be positive", models.ErrInvalidInput)
	}
	if rate.IsNegative() || rate.IsZero() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: exchange rate must be positive", models.ErrInvalidInput)
	}

	rupees = pricePerSqft.Mul(decimal.NewFromInt(units)).Round(rupeePrecision)
	crypto = rupees.DivRound(rate, cryptoPrecision)
	return rupees, crypto, nil
}
