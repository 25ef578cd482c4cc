package storage

import (
	"context"

	"github.com/plotvest/plotvest/models"
)

const userColumns = `id, open_id, name, email, role, last_signed_in, created_at, updated_at`

// UpsertUser creates or refreshes the user row for an identity asserted by
// the upstream gateway, bumping last_signed_in. Name and email only
// overwrite existing values when non-empty.
func (d *DB) UpsertUser(ctx context.Context, openID, name, email string, role models.UserRole) (*models.User, error) {
	var u models.User
	query := `
		INSERT INTO users (open_id, name, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (open_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			role = EXCLUDED.role,
			last_signed_in = NOW(),
			updated_at = NOW()
		RETURNING ` + userColumns
	if err := d.GetContext(ctx, &u, query, openID, name, email, role); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetUser returns a user by numeric ID.
func (d *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := d.GetContext(ctx, &u, query, id); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// GetUserByOpenID returns a user by external identifier.
func (d *DB) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE open_id = $1`
	if err := d.GetContext(ctx, &u, query, openID); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
