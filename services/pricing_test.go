package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotvest/plotvest/models"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name         string
		units        int64
		pricePerSqft string
		rate         string
		wantRupees   string
		wantCrypto   string
	}{
		{
			name:  "whole numbers",
			units: 10, pricePerSqft: "1000", rate: "12500",
			wantRupees: "10000", wantCrypto: "0.8",
		},
		{
			name:  "fractional crypto rounds to nine places",
			units: 1, pricePerSqft: "1000", rate: "12345.67",
			wantRupees: "1000", wantCrypto: "0.081000059",
		},
		{
			name:  "paise price rounds rupees to two places",
			units: 3, pricePerSqft: "599.995", rate: "10000",
			wantRupees: "1799.99", wantCrypto: "0.179999",
		},
		{
			name:  "single minimum unit",
			units: 1, pricePerSqft: "600", rate: "12500",
			wantRupees: "600", wantCrypto: "0.048",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := decimal.RequireFromString(tt.pricePerSqft)
			rate := decimal.RequireFromString(tt.rate)

			rupees, crypto, err := Quote(tt.units, price, rate)
			require.NoError(t, err)
			assert.True(t, rupees.Equal(decimal.RequireFromString(tt.wantRupees)),
				"rupees = %s, want %s", rupees, tt.wantRupees)
			assert.True(t, crypto.Equal(decimal.RequireFromString(tt.wantCrypto)),
				"crypto = %s, want %s", crypto, tt.wantCrypto)
		})
	}
}

func TestQuoteRejectsInvalidInputs(t *testing.T) {
	price := decimal.NewFromInt(1000)
	rate := decimal.NewFromInt(12500)

	_, _, err := Quote(0, price, rate)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = Quote(-5, price, rate)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = Quote(10, decimal.Zero, rate)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = Quote(10, price, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = Quote(10, price, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// The stored rupee amount and the derived crypto amount must stay consistent
// under the snapshotted rate: converting back never drifts by more than the
// nine-decimal rounding step.
func TestQuoteRoundTripStaysConsistent(t *testing.T) {
	price := decimal.RequireFromString("873.21")
	rate := decimal.RequireFromString("11987.53")

	rupees, crypto, err := Quote(137, price, rate)
	require.NoError(t, err)

	back := crypto.Mul(rate)
	diff := back.Sub(rupees).Abs()
	maxDrift := rate.Mul(decimal.New(1, -9)) // one crypto rounding step
	assert.True(t, diff.LessThanOrEqual(maxDrift),
		"round trip drifted by %s (max %s)", diff, maxDrift)
}
