// Package observer turns committed product updates into watcher notifications.
package observer

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

// Observer runs after a product write has committed. It never fails the
// write: every error on this path is logged and dropped.
type Observer struct {
	notifier contracts.WatcherNotifier
	log      *zap.Logger
}

func New(notifier contracts.WatcherNotifier, log *zap.Logger) *Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{notifier: notifier, log: log}
}

// OnProductUpdated detects price drops and restocks between before and after
// and forwards each one to the wishlist watchers. It returns the detected events.
func (o *Observer) OnProductUpdated(ctx context.Context, product domain.Subject, before, after domain.Snapshot) []domain.ChangeEvent {
	events := domain.DetectChanges(before, after)
	for _, ev := range events {
		if err := o.notifier.NotifyWatchers(ctx, product, ev); err != nil {
			o.log.Error("failed to notify wishlist watchers",
				zap.String("product_id", product.ID()),
				zap.String("change", string(ev.Kind)),
				zap.Error(err),
			)
		}
	}
	return events
}
