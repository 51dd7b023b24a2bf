package m_product

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID         string              `spanner:"product_id"`
	SupplierID        string              `spanner:"supplier_id"`
	Name              string              `spanner:"name"`
	Description       string              `spanner:"description"`
	Category          string              `spanner:"category"`
	Price             big.Rat             `spanner:"price"`
	Unit              string              `spanner:"unit"`
	Stock             int64               `spanner:"stock"`
	Negotiable        bool                `spanner:"negotiable"`
	DiscountPercent   spanner.NullNumeric `spanner:"discount_percent"`
	DiscountActive    bool                `spanner:"discount_active"`
	DiscountExpiresAt spanner.NullTime    `spanner:"discount_expires_at"`
	Image             string              `spanner:"image"`
	RatingAverage     float64             `spanner:"rating_average"`
	RatingCount       int64               `spanner:"rating_count"`
	Version           int64               `spanner:"version"`
	CreatedAt         time.Time           `spanner:"created_at"`
	UpdatedAt         time.Time           `spanner:"updated_at"`
}
