package list_products

import (
	"context"
	"strings"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// Request contains filtering and pagination parameters.
type Request struct {
	Category   string
	SupplierID string
	Negotiable *bool
	InStock    bool
	// Search is matched case-insensitively against the product name.
	Search       string
	MinPrice     *domain.Money
	MaxPrice     *domain.Money
	SortByRating bool
	PageSize     int
	PageToken    string
}

// Query handles the list products query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a paginated list of products with filtering.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	if err := validatePriceRange(req.MinPrice, req.MaxPrice); err != nil {
		return nil, err
	}

	filter := &contracts.ListFilter{
		Category:     req.Category,
		SupplierID:   req.SupplierID,
		Negotiable:   req.Negotiable,
		InStock:      req.InStock,
		Query:        strings.TrimSpace(req.Search),
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		SortByRating: req.SortByRating,
		PageSize:     req.PageSize,
		PageToken:    req.PageToken,
	}

	result, err := q.readModel.ListProducts(ctx, filter)
	if err != nil {
		return nil, apperr.Classify("list products", err)
	}
	return result, nil
}

func validatePriceRange(lo, hi *domain.Money) error {
	if (lo != nil && lo.IsNegative()) || (hi != nil && hi.IsNegative()) {
		return domain.ErrInvalidPriceRange
	}
	if lo != nil && hi != nil && lo.GreaterThan(*hi) {
		return domain.ErrInvalidPriceRange
	}
	return nil
}
