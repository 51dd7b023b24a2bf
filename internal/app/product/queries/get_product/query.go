package get_product

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// Request contains the product ID to retrieve.
type Request struct {
	ProductID string
}

// Query handles the get product query use case.
type Query struct {
	readModel contracts.ReadModel
	cache     contracts.ProductCache
	log       *zap.Logger
}

// NewQuery creates a new get product query. cache may be nil.
func NewQuery(readModel contracts.ReadModel, cache contracts.ProductCache, log *zap.Logger) *Query {
	if log == nil {
		log = zap.NewNop()
	}
	return &Query{readModel: readModel, cache: cache, log: log}
}

// Execute retrieves a product by ID, reading through the cache.
// Cache failures degrade to a store read.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	if q.cache != nil {
		dto, err := q.cache.Get(ctx, req.ProductID)
		if err != nil {
			q.log.Warn("product cache read failed", zap.String("product_id", req.ProductID), zap.Error(err))
		} else if dto != nil {
			return dto, nil
		}
	}

	dto, err := q.readModel.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperr.Classify("get product", err)
	}

	if q.cache != nil {
		if err := q.cache.Set(ctx, dto); err != nil {
			q.log.Warn("product cache write failed", zap.String("product_id", req.ProductID), zap.Error(err))
		}
	}
	return dto, nil
}
