package create_quote

import (
	"context"

	"github.com/google/uuid"

	notifdomain "github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

// Request contains the data needed to open a negotiation.
type Request struct {
	Actor     actor.Actor
	ProductID string
	Quantity  int64
	Notes     string
}

// Notifier schedules notifications about a quote.
type Notifier interface {
	Notify(ctx context.Context, q *domain.Quote, typ notifdomain.Type, userIDs ...string)
}

// Interactor handles the create quote use case.
type Interactor struct {
	products contracts.ProductReader
	repo     contracts.QuoteRepository
	notifier Notifier
	clock    clock.Clock
}

func NewInteractor(products contracts.ProductReader, repo contracts.QuoteRepository, notifier Notifier, clock clock.Clock) *Interactor {
	return &Interactor{products: products, repo: repo, notifier: notifier, clock: clock}
}

// Execute snapshots the product terms, stores the pending quote and tells
// the supplier about it.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.QuoteDTO, error) {
	if !req.Actor.CanRequestQuotes() {
		return nil, domain.ErrBuyerOnly
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := i.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperr.Classify("load product", err)
	}

	quote, err := domain.NewQuote(uuid.New().String(), req.Actor, product, req.Quantity, req.Notes, i.clock.Now())
	if err != nil {
		return nil, err
	}
	defer quote.ClearEvents()

	if err := i.repo.Insert(ctx, quote); err != nil {
		return nil, apperr.Classify("insert quote", err)
	}

	i.notifier.Notify(ctx, quote, notifdomain.TypeQuoteRequested, quote.SupplierID())

	return contracts.ToDTO(quote), nil
}
