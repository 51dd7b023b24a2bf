package list_quotes

import (
	"context"

	"github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// Box selects which side of the caller's negotiations to list.
type Box string

const (
	BoxSent     Box = "mine"     // quotes the buyer requested
	BoxReceived Box = "received" // quotes addressed to the supplier
)

// Request contains filtering parameters. Limit defaults to 50, max 200.
type Request struct {
	Actor  actor.Actor
	Box    Box
	Status *domain.Status
	Limit  int
}

var (
	ErrSentBuyersOnly        = apperr.New(apperr.KindForbidden, "only buyers have requested quotes")
	ErrReceivedSuppliersOnly = apperr.New(apperr.KindForbidden, "only suppliers receive quotes")
	ErrUnknownBox            = apperr.New(apperr.KindValidation, "unknown quote listing")
)

type Query struct {
	repo contracts.QuoteRepository
}

func NewQuery(repo contracts.QuoteRepository) *Query {
	return &Query{repo: repo}
}

// Execute lists the caller's quotes newest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.QuoteDTO, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 200 {
		req.Limit = 200
	}
	filter := contracts.ListFilter{Status: req.Status, Limit: req.Limit}

	var (
		quotes []*domain.Quote
		err    error
	)
	switch req.Box {
	case BoxSent:
		if !req.Actor.IsBuyer() {
			return nil, ErrSentBuyersOnly
		}
		quotes, err = q.repo.ListByBuyer(ctx, req.Actor.UserID, filter)
	case BoxReceived:
		if !req.Actor.IsSupplier() {
			return nil, ErrReceivedSuppliersOnly
		}
		quotes, err = q.repo.ListBySupplier(ctx, req.Actor.UserID, filter)
	default:
		return nil, ErrUnknownBox
	}
	if err != nil {
		return nil, apperr.Classify("list quotes", err)
	}

	out := make([]*contracts.QuoteDTO, 0, len(quotes))
	for _, quote := range quotes {
		out = append(out, contracts.ToDTO(quote))
	}
	return out, nil
}
