package delete_product

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

type Request struct {
	Actor     actor.Actor
	ProductID string
}

// Interactor handles the delete product use case.
type Interactor struct {
	repo  contracts.ProductRepository
	cache contracts.ProductCache
	clock clock.Clock
	log   *zap.Logger
}

func NewInteractor(repo contracts.ProductRepository, cache contracts.ProductCache, clock clock.Clock, log *zap.Logger) *Interactor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{repo: repo, cache: cache, clock: clock, log: log}
}

// Execute removes the product. Quotes keep their own snapshot of it.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return apperr.Classify("load product", err)
	}
	defer product.ClearEvents()

	if !req.Actor.CanManageProduct(product.SupplierID()) {
		return domain.ErrNotProductOwner
	}

	product.MarkDeleted(req.Actor.UserID, i.clock.Now())
	if err := i.repo.Delete(ctx, product); err != nil {
		return apperr.Classify("delete product", err)
	}

	if i.cache != nil {
		if err := i.cache.Invalidate(ctx, product.ID()); err != nil {
			i.log.Warn("failed to invalidate product cache", zap.String("product_id", product.ID()), zap.Error(err))
		}
	}
	return nil
}
