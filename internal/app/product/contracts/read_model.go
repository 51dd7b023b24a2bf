package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

// ProductDTO is a data transfer object for product queries.
type ProductDTO struct {
	ProductID   string       `json:"id"`
	SupplierID  string       `json:"supplier_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Price       domain.Money `json:"price"`
	FinalPrice  domain.Money `json:"final_price"`
	Unit        string       `json:"unit"`
	Stock       int64        `json:"stock"`
	Negotiable  bool         `json:"negotiable"`
	Discount    *DiscountDTO `json:"discount,omitempty"`
	Image       string       `json:"image,omitempty"`
	Rating      RatingDTO    `json:"rating"`
	Version     int64        `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type DiscountDTO struct {
	Percentage string     `json:"percentage"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type RatingDTO struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ListFilter defines filtering options for listing products.
type ListFilter struct {
	Category   string
	SupplierID string
	Negotiable *bool
	InStock    bool
	Query      string        // case-insensitive substring of the name
	MinPrice   *domain.Money // inclusive, on the base price
	MaxPrice   *domain.Money // inclusive, on the base price
	// SortByRating orders by rating average then rating count, both
	// descending. The default order is newest first.
	SortByRating bool
	PageSize     int
	PageToken    string // opaque offset
}

// ListResult contains paginated product list results.
type ListResult struct {
	Products      []*ProductDTO
	NextPageToken string
	TotalCount    int64
}

// ReadModel defines the interface for product queries.
// Read models bypass the domain layer.
type ReadModel interface {
	GetProductByID(ctx context.Context, productID string) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter *ListFilter) (*ListResult, error)
}

// ProductCache caches single-product reads.
type ProductCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, productID string) (*ProductDTO, error)
	Set(ctx context.Context, dto *ProductDTO) error
	Invalidate(ctx context.Context, productID string) error
}

// ToDTO projects a product for reads at now.
func ToDTO(p *domain.Product, now time.Time) *ProductDTO {
	dto := &ProductDTO{
		ProductID:   p.ID(),
		SupplierID:  p.SupplierID(),
		Name:        p.Name(),
		Description: p.Description(),
		Category:    p.Category(),
		Price:       p.Price(),
		FinalPrice:  p.FinalPrice(now),
		Unit:        p.Unit(),
		Stock:       p.Stock(),
		Negotiable:  p.Negotiable(),
		Image:       p.Image(),
		Rating:      RatingDTO{Average: p.Rating().Average, Count: p.Rating().Count},
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
	if d := p.Discount(); d != nil {
		dto.Discount = &DiscountDTO{
			Percentage: d.Percentage().String(),
			Active:     d.Active(),
			ExpiresAt:  d.ExpiresAt(),
		}
	}
	return dto
}
