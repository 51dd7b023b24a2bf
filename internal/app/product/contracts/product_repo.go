package contracts

import (
	"context"

	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

// ProductRepository persists the Product aggregate together with its
// pending domain events in one atomic write.
type ProductRepository interface {
	// GetByID returns domain.ErrProductNotFound when the product does not exist.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// Insert writes a new product.
	Insert(ctx context.Context, product *domain.Product) error

	// Update writes the dirty fields only if the stored version still equals
	// product.Version(). A lost race returns domain.ErrVersionConflict.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes the product under the same version check as Update.
	Delete(ctx context.Context, product *domain.Product) error
}

// WatcherNotifier receives the changes detected after a committed update.
type WatcherNotifier interface {
	NotifyWatchers(ctx context.Context, product domain.Subject, event domain.ChangeEvent) error
}
