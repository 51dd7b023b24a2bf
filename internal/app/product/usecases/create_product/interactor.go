package create_product

import (
	"context"

	"github.com/google/uuid"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

// Request contains the data needed to list a product.
type Request struct {
	Actor       actor.Actor
	Name        string
	Description string
	Category    string
	Price       domain.Money
	Unit        string
	Stock       int64
	Negotiable  bool
	Discount    *domain.Discount
	Image       string
}

// Interactor handles the create product use case.
type Interactor struct {
	repo  contracts.ProductRepository
	clock clock.Clock
}

// NewInteractor creates a new create product interactor.
func NewInteractor(repo contracts.ProductRepository, clock clock.Clock) *Interactor {
	return &Interactor{repo: repo, clock: clock}
}

// Execute creates the product and its creation event in one write.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*contracts.ProductDTO, error) {
	if !req.Actor.CanListProducts() {
		return nil, domain.ErrSupplierOnly
	}

	now := i.clock.Now()
	product, err := domain.NewProduct(domain.NewProductParams{
		ID:          uuid.New().String(),
		SupplierID:  req.Actor.UserID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Negotiable:  req.Negotiable,
		Discount:    req.Discount,
		Image:       req.Image,
	}, now)
	if err != nil {
		return nil, err
	}
	defer product.ClearEvents()

	if err := i.repo.Insert(ctx, product); err != nil {
		return nil, apperr.Classify("insert product", err)
	}

	return contracts.ToDTO(product, now), nil
}
