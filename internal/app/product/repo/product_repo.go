package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	outboxrepo "github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_product"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/committer"
)

// numericScale is the number of fractional digits Spanner NUMERIC keeps.
const numericScale = 9

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	outbox    *outboxrepo.OutboxRepo
	model     *m_product.Model
	clock     clock.Clock
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client, c *committer.Committer, clk clock.Clock) contracts.ProductRepository {
	return &ProductRepo{
		client:    client,
		committer: c,
		outbox:    outboxrepo.NewOutboxRepo(),
		model:     m_product.NewModel(),
		clock:     clk,
	}
}

// Insert writes the product row and its creation event.
func (r *ProductRepo) Insert(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()
	plan.Add(r.model.InsertMut(domainToData(product)))
	if err := r.addEvents(plan, product); err != nil {
		return err
	}
	return r.committer.Apply(ctx, plan)
}

// Update writes the dirty fields under a version check.
func (r *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()
	plan.Add(r.updateMut(product))
	if err := r.addEvents(plan, product); err != nil {
		return err
	}
	return r.applyVersioned(ctx, product, plan)
}

// Delete removes the row and records the deletion event under a version check.
func (r *ProductRepo) Delete(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()
	plan.Add(r.model.DeleteMut(product.ID()))
	if err := r.addEvents(plan, product); err != nil {
		return err
	}
	return r.applyVersioned(ctx, product, plan)
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return dataToDomain(&data)
}

func (r *ProductRepo) applyVersioned(ctx context.Context, product *domain.Product, plan *committer.CommitPlan) error {
	guard := committer.VersionGuard(m_product.TableName, spanner.Key{product.ID()}, m_product.Version, product.Version())
	err := r.committer.ApplyGuarded(ctx, guard, plan)
	switch {
	case errors.Is(err, committer.ErrPreconditionFailed):
		return domain.ErrVersionConflict
	case errors.Is(err, committer.ErrRowNotFound):
		return domain.ErrProductNotFound
	}
	return err
}

func (r *ProductRepo) addEvents(plan *committer.CommitPlan, product *domain.Product) error {
	records, err := outbox.EnrichAll(product.DomainEvents(), r.clock.Now())
	if err != nil {
		return err
	}
	plan.AddMultiple(r.outbox.InsertMuts(records))
	return nil
}

// updateMut creates a mutation for the dirty fields only.
func (r *ProductRepo) updateMut(product *domain.Product) *spanner.Mutation {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}
	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = product.Description()
	}
	if changes.Dirty(domain.FieldCategory) {
		updates[m_product.Category] = product.Category()
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_product.Price] = product.Price().Amount().Rat()
	}
	if changes.Dirty(domain.FieldUnit) {
		updates[m_product.Unit] = product.Unit()
	}
	if changes.Dirty(domain.FieldStock) {
		updates[m_product.Stock] = product.Stock()
	}
	if changes.Dirty(domain.FieldNegotiable) {
		updates[m_product.Negotiable] = product.Negotiable()
	}
	if changes.Dirty(domain.FieldDiscount) {
		pct, active, expires := discountColumns(product.Discount())
		updates[m_product.DiscountPercent] = pct
		updates[m_product.DiscountActive] = active
		updates[m_product.DiscountExpiresAt] = expires
	}
	if changes.Dirty(domain.FieldImage) {
		updates[m_product.Image] = product.Image()
	}

	updates[m_product.UpdatedAt] = product.UpdatedAt()
	updates[m_product.Version] = product.Version() + 1

	return r.model.UpdateMut(product.ID(), updates)
}

func discountColumns(d *domain.Discount) (spanner.NullNumeric, bool, spanner.NullTime) {
	if d == nil {
		return spanner.NullNumeric{}, false, spanner.NullTime{}
	}
	pct := spanner.NullNumeric{Numeric: *d.Percentage().Rat(), Valid: true}
	var expires spanner.NullTime
	if exp := d.ExpiresAt(); exp != nil {
		expires = spanner.NullTime{Time: *exp, Valid: true}
	}
	return pct, d.Active(), expires
}

func domainToData(product *domain.Product) *m_product.Data {
	pct, active, expires := discountColumns(product.Discount())
	return &m_product.Data{
		ProductID:         product.ID(),
		SupplierID:        product.SupplierID(),
		Name:              product.Name(),
		Description:       product.Description(),
		Category:          product.Category(),
		Price:             *product.Price().Amount().Rat(),
		Unit:              product.Unit(),
		Stock:             product.Stock(),
		Negotiable:        product.Negotiable(),
		DiscountPercent:   pct,
		DiscountActive:    active,
		DiscountExpiresAt: expires,
		Image:             product.Image(),
		RatingAverage:     product.Rating().Average,
		RatingCount:       product.Rating().Count,
		Version:           product.Version(),
		CreatedAt:         product.CreatedAt(),
		UpdatedAt:         product.UpdatedAt(),
	}
}

func dataToDomain(data *m_product.Data) (*domain.Product, error) {
	var discount *domain.Discount
	if data.DiscountPercent.Valid {
		var expires *time.Time
		if data.DiscountExpiresAt.Valid {
			t := data.DiscountExpiresAt.Time
			expires = &t
		}
		d, err := domain.NewDiscount(decimal.NewFromBigRat(&data.DiscountPercent.Numeric, numericScale), data.DiscountActive, expires)
		if err != nil {
			return nil, fmt.Errorf("invalid discount: %w", err)
		}
		discount = d
	}

	return domain.ReconstructProduct(domain.ReconstructParams{
		NewProductParams: domain.NewProductParams{
			ID:          data.ProductID,
			SupplierID:  data.SupplierID,
			Name:        data.Name,
			Description: data.Description,
			Category:    data.Category,
			Price:       domain.NewMoney(decimal.NewFromBigRat(&data.Price, numericScale)),
			Unit:        data.Unit,
			Stock:       data.Stock,
			Negotiable:  data.Negotiable,
			Discount:    discount,
			Image:       data.Image,
		},
		Rating:    domain.Rating{Average: data.RatingAverage, Count: data.RatingCount},
		Version:   data.Version,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}), nil
}
