// Package dispatcher persists notifications and forwards them to the push transport.
//
// Nothing here returns an error to the caller. Persistence and push failures
// are logged independently, so a push failure never prevents the stored
// record and a storage failure never prevents the push.
package dispatcher

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
)

// Dispatcher delivers notifications to users.
type Dispatcher struct {
	repo    contracts.NotificationRepository
	push    contracts.PushTransport
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(
	repo contracts.NotificationRepository,
	push contracts.PushTransport,
	clk clock.Clock,
	log *zap.Logger,
	m *metrics.Metrics,
) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{repo: repo, push: push, clock: clk, log: log, metrics: m}
}

// Dispatch stores msg for the recipient and pushes it to their devices.
// Duplicate and empty tokens are dropped before the push. A nil recipient is
// a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient *domain.Recipient, msg domain.Message) {
	if recipient == nil {
		return
	}

	_ = d.Persist(ctx, recipient.ID, msg)

	d.Multicast(ctx, domain.UnionTokens([]*domain.Recipient{recipient}), msg)
}

// Persist stores one notification. The error is logged here and returned so
// callers that fan out can count failures; they must not propagate it.
func (d *Dispatcher) Persist(ctx context.Context, userID string, msg domain.Message) error {
	n, err := domain.NewNotification(uuid.New().String(), userID, msg, d.clock.Now())
	if err == nil {
		err = d.repo.Save(ctx, n)
	}

	d.metrics.NotificationPersisted(string(msg.Type), err)
	if err != nil {
		d.log.Error("failed to persist notification",
			zap.String("user_id", userID),
			zap.String("type", string(msg.Type)),
			zap.Error(err),
		)
	}
	return err
}

// Multicast sends msg to every token in one transport call.
func (d *Dispatcher) Multicast(ctx context.Context, tokens []string, msg domain.Message) {
	if len(tokens) == 0 {
		return
	}

	err := d.push.SendMulticast(ctx, tokens, contracts.PushMessage{
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	})

	d.metrics.PushSent(len(tokens), err)
	if err != nil {
		d.log.Warn("push multicast failed",
			zap.Int("tokens", len(tokens)),
			zap.String("type", string(msg.Type)),
			zap.Error(err),
		)
	}
}
