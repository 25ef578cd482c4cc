package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/plotvest/plotvest/models"
)

// SeedDemoProperties inserts the demo listings used by local and staging
// environments. It is a no-op when any property already exists.
func (d *DB) SeedDemoProperties(ctx context.Context) (int, error) {
	var count int
	if err := d.GetContext(ctx, &count, `SELECT COUNT(*) FROM properties`); err != nil {
		return 0, translate(err)
	}
	if count > 0 {
		return 0, nil
	}

	demo := []models.Property{
		{
			Title:        "Premium Commercial Space - Mumbai",
			Description:  "State-of-the-art commercial property in the heart of Mumbai's business district. Perfect for corporate offices and retail businesses.",
			Location:     "Bandra, Mumbai",
			TotalArea:    50000,
			TotalPrice:   decimal.NewFromInt(50000000),
			PricePerSqft: decimal.NewFromInt(1000),
			MinShareSize: 1,
			TotalShares:  50000,
			ImageURL:     "https://images.unsplash.com/photo-1486406146926-c627a92ad1ab?w=500&h=300&fit=crop",
			PropertyType: "commercial",
		},
		{
			Title:        "Luxury Residential Complex - Bangalore",
			Description:  "Upscale residential property in Bangalore's premium locality with modern amenities, 24/7 security, swimming pool and gym.",
			Location:     "Indiranagar, Bangalore",
			TotalArea:    75000,
			TotalPrice:   decimal.NewFromInt(45000000),
			PricePerSqft: decimal.NewFromInt(600),
			MinShareSize: 1,
			TotalShares:  75000,
			ImageURL:     "https://images.unsplash.com/photo-1545324418-cc1a9a6fded0?w=500&h=300&fit=crop",
			PropertyType: "residential",
		},
		{
			Title:        "Mixed-Use Development - Delhi",
			Description:  "Modern mixed-use property combining residential and commercial spaces, close to metro stations and business hubs.",
			Location:     "Gurugram, Delhi",
			TotalArea:    100000,
			TotalPrice:   decimal.NewFromInt(80000000),
			PricePerSqft: decimal.NewFromInt(800),
			MinShareSize: 1,
			TotalShares:  100000,
			ImageURL:     "https://images.unsplash.com/photo-1486325212027-8081e485255e?w=500&h=300&fit=crop",
			PropertyType: "mixed",
		},
	}

	for i := range demo {
		if err := d.CreateProperty(ctx, &demo[i]); err != nil {
			return i, err
		}
	}
	return len(demo), nil
}
