package list_events

import (
	"context"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// Request contains filtering parameters for listing events.
type Request struct {
	Actor       actor.Actor
	EventType   *string // e.g. "quote.converted"
	AggregateID *string
	Status      *string // "pending", "completed", "failed"
	Limit       int     // default 100, max 1000
}

// EventsReadModel defines the interface for reading events.
type EventsReadModel interface {
	ListEvents(ctx context.Context, req *Request) ([]*outbox.Record, int64, error)
}

// Query handles the list events query use case.
type Query struct {
	readModel EventsReadModel
}

func NewQuery(readModel EventsReadModel) *Query {
	return &Query{readModel: readModel}
}

var ErrAdminOnly = apperr.New(apperr.KindForbidden, "only admins can read the event log")

// Execute retrieves a list of events with filtering.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*outbox.Record, int64, error) {
	if !req.Actor.IsAdmin() {
		return nil, 0, ErrAdminOnly
	}

	if req.Limit <= 0 {
		req.Limit = 100
	}
	if req.Limit > 1000 {
		req.Limit = 1000
	}

	events, total, err := q.readModel.ListEvents(ctx, req)
	if err != nil {
		return nil, 0, apperr.Dependency("list events", err)
	}
	return events, total, nil
}
