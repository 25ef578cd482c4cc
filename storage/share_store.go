package storage

import (
	"context"

	"github.com/plotvest/plotvest/models"
)

// ListUserShares returns the user's holdings across all properties.
// Rows are written exclusively by FinalizePurchase, so every record here is
// backed by at least one completed buy transaction.
func (d *DB) ListUserShares(ctx context.Context, userID int64) ([]models.PropertyShare, error) {
	var shares []models.PropertyShare
	query := `
		SELECT id, user_id, property_id, shares_owned, investment_amount,
			crypto_invested, purchase_date, created_at, updated_at
		FROM user_property_shares
		WHERE user_id = $1
		ORDER BY purchase_date DESC, id DESC`
	if err := d.SelectContext(ctx, &shares, query, userID); err != nil {
		return nil, translate(err)
	}
	return shares, nil
}
