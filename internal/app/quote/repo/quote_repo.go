package repo

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	outboxrepo "github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	"github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_quote"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/committer"
	"github.com/light-bringer/rawsy-service/internal/pkg/query"
)

const defaultListLimit = 50

// QuoteRepo implements QuoteRepository for Spanner.
type QuoteRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	outbox    *outboxrepo.OutboxRepo
	model     *m_quote.Model
	clock     clock.Clock
}

func NewQuoteRepo(client *spanner.Client, c *committer.Committer, clk clock.Clock) contracts.QuoteRepository {
	return &QuoteRepo{
		client:    client,
		committer: c,
		outbox:    outboxrepo.NewOutboxRepo(),
		model:     m_quote.NewModel(),
		clock:     clk,
	}
}

func (r *QuoteRepo) GetByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	row, err := r.client.Single().ReadRow(ctx, m_quote.TableName, spanner.Key{quoteID}, m_quote.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to read quote: %w", err)
	}

	var data m_quote.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}
	return dataToDomain(&data)
}

// Insert writes the quote and its request event.
func (r *QuoteRepo) Insert(ctx context.Context, quote *domain.Quote) error {
	plan := committer.NewPlan()
	plan.Add(r.model.InsertMut(domainToData(quote)))
	if err := r.addEvents(plan, quote); err != nil {
		return err
	}
	return r.committer.Apply(ctx, plan)
}

// UpdateIfVersion reads the stored version inside a read-write transaction
// and buffers the transition only when it still equals expected.
func (r *QuoteRepo) UpdateIfVersion(ctx context.Context, quote *domain.Quote, expected int64) error {
	plan := committer.NewPlan()
	plan.Add(r.model.TransitionMut(domainToData(quote)))
	if err := r.addEvents(plan, quote); err != nil {
		return err
	}

	guard := committer.VersionGuard(m_quote.TableName, spanner.Key{quote.ID()}, m_quote.Version, expected)
	err := r.committer.ApplyGuarded(ctx, guard, plan)
	switch {
	case errors.Is(err, committer.ErrPreconditionFailed):
		return domain.ErrQuoteConflict
	case errors.Is(err, committer.ErrRowNotFound):
		return domain.ErrQuoteNotFound
	}
	return err
}

func (r *QuoteRepo) ListByBuyer(ctx context.Context, buyerID string, filter contracts.ListFilter) ([]*domain.Quote, error) {
	return r.list(ctx, m_quote.BuyerID, buyerID, filter)
}

func (r *QuoteRepo) ListBySupplier(ctx context.Context, supplierID string, filter contracts.ListFilter) ([]*domain.Quote, error) {
	return r.list(ctx, m_quote.SupplierID, supplierID, filter)
}

func (r *QuoteRepo) list(ctx context.Context, partyColumn, partyID string, filter contracts.ListFilter) ([]*domain.Quote, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := query.From(m_quote.TableName).
		Select(m_quote.Columns()...).
		Where(query.Eq(partyColumn, partyID))
	if filter.Status != nil {
		q = q.Where(query.Eq(m_quote.Status, string(*filter.Status)))
	}

	iter := r.client.Single().Query(ctx, q.OrderBy(m_quote.CreatedAt, query.Desc).OrderBy(m_quote.QuoteID, query.Asc).Limit(int64(limit)).Build())
	defer iter.Stop()

	quotes := make([]*domain.Quote, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate quotes: %w", err)
		}

		var data m_quote.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse quote: %w", err)
		}
		quote, err := dataToDomain(&data)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

func (r *QuoteRepo) addEvents(plan *committer.CommitPlan, quote *domain.Quote) error {
	records, err := outbox.EnrichAll(quote.DomainEvents(), r.clock.Now())
	if err != nil {
		return err
	}
	plan.AddMultiple(r.outbox.InsertMuts(records))
	return nil
}
