// Package fanout broadcasts product changes to the users watching the product.
package fanout

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

const maxConcurrentWrites = 8

// Notifier is the delivery side of the dispatcher.
type Notifier interface {
	Persist(ctx context.Context, userID string, msg domain.Message) error
	Multicast(ctx context.Context, tokens []string, msg domain.Message)
}

// Fanout resolves wishlist watchers and notifies them.
type Fanout struct {
	directory contracts.UserDirectory
	notifier  Notifier
	log       *zap.Logger
}

func New(directory contracts.UserDirectory, notifier Notifier, log *zap.Logger) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{directory: directory, notifier: notifier, log: log}
}

// NotifyWatchers stores one notification per watcher, then sends one
// multicast push to the union of their device tokens.
//
// Only the watcher lookup can fail. Individual write failures and the push
// failure are logged by the notifier and do not stop the others.
func (f *Fanout) NotifyWatchers(ctx context.Context, product productdomain.Subject, event productdomain.ChangeEvent) error {
	msg, err := BuildMessage(product, event)
	if err != nil {
		return err
	}

	watchers, err := f.directory.FindWishlistWatchers(ctx, product.ID())
	if err != nil {
		return fmt.Errorf("failed to resolve wishlist watchers: %w", err)
	}
	if len(watchers) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentWrites)
	for _, w := range watchers {
		if w == nil {
			continue
		}
		userID := w.ID
		g.Go(func() error {
			// failures are already logged; keep going for the other watchers
			_ = f.notifier.Persist(ctx, userID, msg)
			return nil
		})
	}
	_ = g.Wait()

	f.notifier.Multicast(ctx, domain.UnionTokens(watchers), msg)

	f.log.Debug("wishlist watchers notified",
		zap.String("product_id", product.ID()),
		zap.String("type", string(msg.Type)),
		zap.Int("watchers", len(watchers)),
	)
	return nil
}

// BuildMessage renders the title, body and payload for a change event.
func BuildMessage(product productdomain.Subject, event productdomain.ChangeEvent) (domain.Message, error) {
	switch event.Kind {
	case productdomain.ChangePriceDrop:
		if event.OldPrice == nil || event.NewPrice == nil {
			return domain.Message{}, fmt.Errorf("price drop event for %s has no prices", product.ID())
		}
		oldPrice, newPrice := event.OldPrice.String(), event.NewPrice.String()
		return domain.Message{
			Type:  domain.TypePriceDrop,
			Title: "Price drop: " + product.Name(),
			Body:  fmt.Sprintf("%s price dropped from %s to %s", product.Name(), oldPrice, newPrice),
			Data: map[string]string{
				"productId": product.ID(),
				"type":      string(domain.TypePriceDrop),
				"oldPrice":  oldPrice,
				"newPrice":  newPrice,
			},
		}, nil

	case productdomain.ChangeBackInStock:
		return domain.Message{
			Type:  domain.TypeBackInStock,
			Title: "Back in stock: " + product.Name(),
			Body:  product.Name() + " is back in stock",
			Data: map[string]string{
				"productId": product.ID(),
				"type":      string(domain.TypeBackInStock),
			},
		}, nil

	default:
		return domain.Message{}, fmt.Errorf("unsupported change kind %q", event.Kind)
	}
}
