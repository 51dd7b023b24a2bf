package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	outboxrepo "github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	"github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_quote"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

// MemoryRepo is the in-process quote store. The version check and the write
// happen under one lock, which gives the same compare-and-set semantics as
// the Spanner transaction.
type MemoryRepo struct {
	mu     sync.Mutex
	rows   map[string]m_quote.Data
	events *outboxrepo.MemoryLog
	clock  clock.Clock
}

func NewMemoryRepo(events *outboxrepo.MemoryLog, clk clock.Clock) *MemoryRepo {
	return &MemoryRepo{
		rows:   make(map[string]m_quote.Data),
		events: events,
		clock:  clk,
	}
}

func (r *MemoryRepo) GetByID(_ context.Context, quoteID string) (*domain.Quote, error) {
	r.mu.Lock()
	data, ok := r.rows[quoteID]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}
	return dataToDomain(&data)
}

func (r *MemoryRepo) Insert(_ context.Context, quote *domain.Quote) error {
	records, err := outbox.EnrichAll(quote.DomainEvents(), r.clock.Now())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[quote.ID()]; exists {
		return domain.ErrQuoteConflict
	}
	r.rows[quote.ID()] = *domainToData(quote)
	r.events.Append(records...)
	return nil
}

func (r *MemoryRepo) UpdateIfVersion(_ context.Context, quote *domain.Quote, expected int64) error {
	records, err := outbox.EnrichAll(quote.DomainEvents(), r.clock.Now())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[quote.ID()]
	if !ok {
		return domain.ErrQuoteNotFound
	}
	if current.Version != expected {
		return domain.ErrQuoteConflict
	}
	r.rows[quote.ID()] = *domainToData(quote)
	r.events.Append(records...)
	return nil
}

func (r *MemoryRepo) ListByBuyer(_ context.Context, buyerID string, filter contracts.ListFilter) ([]*domain.Quote, error) {
	return r.list(filter, func(d *m_quote.Data) bool { return d.BuyerID == buyerID })
}

func (r *MemoryRepo) ListBySupplier(_ context.Context, supplierID string, filter contracts.ListFilter) ([]*domain.Quote, error) {
	return r.list(filter, func(d *m_quote.Data) bool { return d.SupplierID == supplierID })
}

func (r *MemoryRepo) list(filter contracts.ListFilter, match func(*m_quote.Data) bool) ([]*domain.Quote, error) {
	r.mu.Lock()
	matched := make([]m_quote.Data, 0)
	for _, row := range r.rows {
		if !match(&row) {
			continue
		}
		if filter.Status != nil && row.Status != string(*filter.Status) {
			continue
		}
		matched = append(matched, row)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].QuoteID > matched[j].QuoteID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]*domain.Quote, 0, len(matched))
	for i := range matched {
		q, err := dataToDomain(&matched[i])
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
