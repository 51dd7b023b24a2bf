package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	outboxrepo "github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_product"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

// MemoryStore is the in-process product store used by the memory storage
// driver and by use-case tests. It implements both ProductRepository and
// ReadModel, and stores rows in their table shape.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[string]m_product.Data
	events *outboxrepo.MemoryLog
	clock  clock.Clock
}

func NewMemoryStore(events *outboxrepo.MemoryLog, clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		rows:   make(map[string]m_product.Data),
		events: events,
		clock:  clk,
	}
}

func (s *MemoryStore) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.rows[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return dataToDomain(&data)
}

func (s *MemoryStore) Insert(_ context.Context, product *domain.Product) error {
	records, err := outbox.EnrichAll(product.DomainEvents(), s.clock.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rows[product.ID()]; exists {
		return domain.ErrVersionConflict
	}
	s.rows[product.ID()] = *domainToData(product)
	s.events.Append(records...)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, product *domain.Product) error {
	records, err := outbox.EnrichAll(product.DomainEvents(), s.clock.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersion(product); err != nil {
		return err
	}
	if !product.Changes().HasChanges() {
		return nil
	}

	data := domainToData(product)
	data.Version = product.Version() + 1
	s.rows[product.ID()] = *data
	s.events.Append(records...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, product *domain.Product) error {
	records, err := outbox.EnrichAll(product.DomainEvents(), s.clock.Now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkVersion(product); err != nil {
		return err
	}
	delete(s.rows, product.ID())
	s.events.Append(records...)
	return nil
}

func (s *MemoryStore) checkVersion(product *domain.Product) error {
	current, ok := s.rows[product.ID()]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.Version != product.Version() {
		return domain.ErrVersionConflict
	}
	return nil
}

func (s *MemoryStore) GetProductByID(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return contracts.ToDTO(product, s.clock.Now()), nil
}

func (s *MemoryStore) ListProducts(_ context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	pageSize, offset, err := pagination(filter)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(filter.Query)

	s.mu.RLock()
	matched := make([]m_product.Data, 0, len(s.rows))
	for _, row := range s.rows {
		if filter.Category != "" && row.Category != filter.Category {
			continue
		}
		if filter.SupplierID != "" && row.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Negotiable != nil && row.Negotiable != *filter.Negotiable {
			continue
		}
		if filter.InStock && row.Stock <= 0 {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(row.Name), needle) {
			continue
		}
		if filter.MinPrice != nil && row.Price.Cmp(filter.MinPrice.Amount().Rat()) < 0 {
			continue
		}
		if filter.MaxPrice != nil && row.Price.Cmp(filter.MaxPrice.Amount().Rat()) > 0 {
			continue
		}
		matched = append(matched, row)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.SortByRating {
			if a.RatingAverage != b.RatingAverage {
				return a.RatingAverage > b.RatingAverage
			}
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
		}
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ProductID < b.ProductID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	now := s.clock.Now()
	products := make([]*contracts.ProductDTO, 0, end-offset)
	for i := range matched[offset:end] {
		product, err := dataToDomain(&matched[offset+i])
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
