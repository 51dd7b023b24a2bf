package transition_quote

import (
	"context"

	"go.uber.org/zap"

	notifdomain "github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/notify"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
)

// Request contains one negotiation move.
type Request struct {
	Actor           actor.Actor
	QuoteID         string
	Action          domain.Action
	CounterPrice    *productdomain.Money // required for counter
	SupplierMessage *string
}

// Notifier schedules notifications about a quote.
type Notifier interface {
	Notify(ctx context.Context, q *domain.Quote, typ notifdomain.Type, userIDs ...string)
}

// Interactor handles the transition quote use case.
type Interactor struct {
	repo     contracts.QuoteRepository
	notifier Notifier
	clock    clock.Clock
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewInteractor(
	repo contracts.QuoteRepository,
	notifier Notifier,
	clock clock.Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) *Interactor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{repo: repo, notifier: notifier, clock: clock, metrics: m, log: log}
}

// Execute validates the move against the negotiation table and writes it
// with a compare-and-set on the version it was computed from. A lost race
// returns domain.ErrQuoteConflict and the caller must reload.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.QuoteDTO, error) {
	quote, err := i.repo.GetByID(ctx, req.QuoteID)
	if err != nil {
		return nil, apperr.Classify("load quote", err)
	}
	defer quote.ClearEvents()

	expected := quote.Version()
	entry, err := quote.Transition(req.Actor, req.Action, domain.TransitionInput{
		CounterPrice:    req.CounterPrice,
		SupplierMessage: req.SupplierMessage,
	}, i.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := i.repo.UpdateIfVersion(ctx, quote, expected); err != nil {
		return nil, apperr.Classify("update quote", err)
	}

	i.metrics.QuoteTransition(string(entry.From), string(entry.To), string(entry.Action))
	i.log.Info("quote transitioned",
		zap.String("quote_id", quote.ID()),
		zap.String("from", string(entry.From)),
		zap.String("to", string(entry.To)),
		zap.String("actor_id", entry.ActorID),
	)

	i.notifier.Notify(ctx, quote, notify.TypeFor(entry.To), quote.Counterparties(entry.Side)...)

	return contracts.ToDTO(quote), nil
}
