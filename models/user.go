package models

import "time"

// UserRole gates administrative operations such as listing new properties.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User mirrors the identity issued by the upstream auth gateway. OpenID is
// the stable external identifier; the numeric ID is used for relations.
type User struct {
	ID           int64     `db:"id" json:"id"`
	OpenID       string    `db:"open_id" json:"openId"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Role         UserRole  `db:"role" json:"role"`
	LastSignedIn time.Time `db:"last_signed_in" json:"lastSignedIn"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
