package get_quote

import (
	"context"

	"github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

type Request struct {
	Actor   actor.Actor
	QuoteID string
}

type Query struct {
	repo contracts.QuoteRepository
}

func NewQuery(repo contracts.QuoteRepository) *Query {
	return &Query{repo: repo}
}

// Execute returns the quote to its buyer, its supplier or an admin.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.QuoteDTO, error) {
	quote, err := q.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, apperr.Classify("get quote", err)
	}
	if _, err := quote.SideOf(req.Actor); err != nil {
		return nil, err
	}
	return contracts.ToDTO(quote), nil
}
