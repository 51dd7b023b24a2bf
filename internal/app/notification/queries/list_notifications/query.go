package list_notifications

import (
	"context"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

// Request lists the caller's own notifications.
type Request struct {
	Actor actor.Actor
	Limit int // default 50, max 200
}

type Query struct {
	repo contracts.NotificationRepository
}

func NewQuery(repo contracts.NotificationRepository) *Query {
	return &Query{repo: repo}
}

// Execute returns the actor's notifications newest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*domain.Notification, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Limit > 200 {
		req.Limit = 200
	}

	items, err := q.repo.ListByUser(ctx, req.Actor.UserID, req.Limit)
	if err != nil {
		return nil, apperr.Dependency("list notifications", err)
	}
	return items, nil
}
