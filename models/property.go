package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyStatus tracks whether a property can still accept investments.
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertySoldOut   PropertyStatus = "sold_out"
	PropertyPending   PropertyStatus = "pending"
)

// Property is a listed real-estate asset divisible into purchasable shares.
// One share corresponds to one square foot. SoldShares is a derived counter:
// it must always equal the sum of SharesAmount over completed buy
// transactions for the property.
type Property struct {
	ID           int64           `db:"id" json:"id"`
	Title        string          `db:"title" json:"title"`
	Description  string          `db:"description" json:"description"`
	Location     string          `db:"location" json:"location"`
	TotalArea    int64           `db:"total_area" json:"totalArea"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"totalPrice"`
	PricePerSqft decimal.Decimal `db:"price_per_sqft" json:"pricePerSqft"`
	MinShareSize int64           `db:"min_share_size" json:"minShareSize"`
	TotalShares  int64           `db:"total_shares" json:"totalShares"`
	SoldShares   int64           `db:"sold_shares" json:"soldShares"`
	ImageURL     string          `db:"image_url" json:"imageUrl"`
	PropertyType string          `db:"property_type" json:"propertyType"`
	Status       PropertyStatus  `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

// AvailableShares returns the remaining purchasable capacity.
func (p Property) AvailableShares() int64 {
	return p.TotalShares - p.SoldShares
}
