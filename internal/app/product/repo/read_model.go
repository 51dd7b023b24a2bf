package repo

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_product"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/query"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
	clock  clock.Clock
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client, clk clock.Clock) contracts.ReadModel {
	return &ReadModelImpl{client: client, clock: clk}
}

// GetProductByID retrieves a product DTO by ID.
func (rm *ReadModelImpl) GetProductByID(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	row, err := rm.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	product, err := dataToDomain(&data)
	if err != nil {
		return nil, err
	}
	return contracts.ToDTO(product, rm.clock.Now()), nil
}

// ListProducts retrieves a page of products, newest first unless the filter
// asks for rating order.
func (rm *ReadModelImpl) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	pageSize, offset, err := pagination(filter)
	if err != nil {
		return nil, err
	}

	q := query.From(m_product.TableName).Select(m_product.Columns()...)
	if filter.Category != "" {
		q = q.Where(query.Eq(m_product.Category, filter.Category))
	}
	if filter.SupplierID != "" {
		q = q.Where(query.Eq(m_product.SupplierID, filter.SupplierID))
	}
	if filter.Negotiable != nil {
		q = q.Where(query.Eq(m_product.Negotiable, *filter.Negotiable))
	}
	if filter.InStock {
		q = q.Where(query.Gt(m_product.Stock, int64(0)))
	}
	if filter.Query != "" {
		q = q.Where(query.ContainsFold(m_product.Name, filter.Query))
	}
	if filter.MinPrice != nil {
		q = q.Where(query.Gte(m_product.Price, filter.MinPrice.Amount().Rat()))
	}
	if filter.MaxPrice != nil {
		q = q.Where(query.Lte(m_product.Price, filter.MaxPrice.Amount().Rat()))
	}

	total, err := rm.count(ctx, q.Count().Build())
	if err != nil {
		return nil, err
	}

	if filter.SortByRating {
		q = q.OrderBy(m_product.RatingAverage, query.Desc).OrderBy(m_product.RatingCount, query.Desc)
	}
	stmt := q.OrderBy(m_product.CreatedAt, query.Desc).OrderBy(m_product.ProductID, query.Asc).Limit(int64(pageSize)).Offset(int64(offset)).Build()
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	now := rm.clock.Now()
	products := make([]*contracts.ProductDTO, 0, pageSize)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		product, err := dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, contracts.ToDTO(product, now))
	}

	return &contracts.ListResult{
		Products:      products,
		NextPageToken: nextPageToken(offset, len(products), total),
		TotalCount:    total,
	}, nil
}

func (rm *ReadModelImpl) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	var total int64
	if err := row.Columns(&total); err != nil {
		return 0, fmt.Errorf("failed to parse product count: %w", err)
	}
	return total, nil
}

// pagination normalizes the page size and decodes the offset token.
func pagination(filter *contracts.ListFilter) (int, int, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := 0
	if filter.PageToken != "" {
		n, err := strconv.Atoi(filter.PageToken)
		if err != nil || n < 0 {
			return 0, 0, domain.ErrInvalidPageToken
		}
		offset = n
	}
	return pageSize, offset, nil
}

func nextPageToken(offset, returned int, total int64) string {
	next := offset + returned
	if returned == 0 || int64(next) >= total {
		return ""
	}
	return strconv.Itoa(next)
}
