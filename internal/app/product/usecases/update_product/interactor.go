package update_product

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/sideeffect"
)

// Request contains the data to update a product. Nil patch fields are left unchanged.
type Request struct {
	Actor     actor.Actor
	ProductID string
	Patch     domain.Patch
}

// MutationObserver reacts to a committed update.
type MutationObserver interface {
	OnProductUpdated(ctx context.Context, product domain.Subject, before, after domain.Snapshot) []domain.ChangeEvent
}

// Interactor handles the update product use case.
type Interactor struct {
	repo     contracts.ProductRepository
	observer MutationObserver
	runner   sideeffect.Runner
	cache    contracts.ProductCache
	clock    clock.Clock
	log      *zap.Logger
}

// NewInteractor creates a new update product interactor. cache may be nil.
func NewInteractor(
	repo contracts.ProductRepository,
	observer MutationObserver,
	runner sideeffect.Runner,
	cache contracts.ProductCache,
	clock clock.Clock,
	log *zap.Logger,
) *Interactor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{
		repo:     repo,
		observer: observer,
		runner:   runner,
		cache:    cache,
		clock:    clock,
		log:      log,
	}
}

// ref is an immutable copy of the identity the observer needs.
type ref struct{ id, name string }

func (r ref) ID() string   { return r.id }
func (r ref) Name() string { return r.name }

// Execute applies the patch under a version check, then hands the before and
// after snapshots to the mutation observer without waiting for it.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	if req.Patch.IsEmpty() {
		return nil, domain.ErrNoChanges
	}

	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, apperr.Classify("load product", err)
	}
	defer product.ClearEvents()

	if !req.Actor.CanManageProduct(product.SupplierID()) {
		return nil, domain.ErrNotProductOwner
	}

	now := i.clock.Now()
	before := product.Snapshot()
	if err := product.Apply(req.Patch, now); err != nil {
		return nil, err
	}
	if !product.Changes().HasChanges() {
		return contracts.ToDTO(product, now), nil
	}

	if err := i.repo.Update(ctx, product); err != nil {
		return nil, apperr.Classify("update product", err)
	}
	product.MarkPersisted()
	after := product.Snapshot()

	i.invalidate(ctx, product.ID())

	subject := ref{id: product.ID(), name: product.Name()}
	i.runner.Go(ctx, "product.observe", func(ctx context.Context) error {
		i.observer.OnProductUpdated(ctx, subject, before, after)
		return nil
	})

	return contracts.ToDTO(product, now), nil
}

func (i *Interactor) invalidate(ctx context.Context, productID string) {
	if i.cache == nil {
		return
	}
	if err := i.cache.Invalidate(ctx, productID); err != nil {
		i.log.Warn("failed to invalidate product cache", zap.String("product_id", productID), zap.Error(err))
	}
}
