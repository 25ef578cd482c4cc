package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/plotvest/plotvest/models"
)

const propertyColumns = `id, title, description, location, total_area, total_price,
	price_per_sqft, min_share_size, total_shares, sold_shares, image_url,
	property_type, status, created_at, updated_at`

// ListProperties returns all listed properties, newest first.
func (d *DB) ListProperties(ctx context.Context) ([]models.Property, error) {
	var props []models.Property
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC, id DESC`
	if err := d.SelectContext(ctx, &props, query); err != nil {
		return nil, translate(err)
	}
	return props, nil
}

// GetProperty returns a single property by ID.
func (d *DB) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	if err := d.GetContext(ctx, &p, query, id); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// CreateProperty inserts a new listing and fills in the generated fields.
func (d *DB) CreateProperty(ctx context.Context, p *models.Property) error {
	query := `
		INSERT INTO properties (title, description, location, total_area, total_price,
			price_per_sqft, min_share_size, total_shares, image_url, property_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, sold_shares, created_at, updated_at`
	err := d.QueryRowxContext(ctx, query,
		p.Title, p.Description, p.Location, p.TotalArea, p.TotalPrice,
		p.PricePerSqft, p.MinShareSize, p.TotalShares, p.ImageURL, p.PropertyType,
		models.PropertyAvailable,
	).Scan(&p.ID, &p.SoldShares, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	p.Status = models.PropertyAvailable
	return nil
}

// reserveShares atomically claims units of inventory. The capacity check and
// the increment happen in a single conditional UPDATE, so concurrent
// reservations racing for the last units can never push sold_shares past
// total_shares: the database admits exactly as many as fit.
func reserveShares(ctx context.Context, tx *sqlx.Tx, propertyID, units int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE properties
		SET sold_shares = sold_shares + $2,
		    status = CASE WHEN sold_shares + $2 >= total_shares THEN 'sold_out' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND status <> 'pending' AND sold_shares + $2 <= total_shares`,
		propertyID, units)
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
			`SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1)`, propertyID); err != nil {
			return translate(err)
		}
		if !exists {
			return fmt.Errorf("property %d: %w", propertyID, models.ErrNotFound)
		}
		return models.ErrInsufficientInventory
	}
	return nil
}

// releaseShares is the compensating action for a reservation whose
// transaction did not complete. It never drives sold_shares negative and
// reopens a property that was marked sold out by the reservation.
func releaseShares(ctx context.Context, tx *sqlx.Tx, propertyID, units int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE properties
		SET sold_shares = GREATEST(sold_shares - $2, 0),
		    status = CASE WHEN status = 'sold_out' THEN 'available' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1`,
		propertyID, units)
	return translate(err)
}
