package domain

import (
	"strings"
	"time"
)

// Field names for change tracking
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldUnit        = "unit"
	FieldStock       = "stock"
	FieldNegotiable  = "negotiable"
	FieldDiscount    = "discount"
	FieldImage       = "image"
)

// Rating is the aggregated review score of a product.
type Rating struct {
	Average float64
	Count   int64
}

// Product is the aggregate root for a supplier's catalog listing.
type Product struct {
	id          string
	supplierID  string
	name        string
	description string
	category    string
	price       Money
	unit        string
	stock       int64
	negotiable  bool
	discount    *Discount
	image       string
	rating      Rating
	version     int64
	createdAt   time.Time
	updatedAt   time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewProductParams groups the inputs of NewProduct.
type NewProductParams struct {
	ID          string
	SupplierID  string
	Name        string
	Description string
	Category    string
	Price       Money
	Unit        string
	Stock       int64
	Negotiable  bool
	Discount    *Discount
	Image       string
}

// NewProduct creates a new Product aggregate (for creation).
func NewProduct(params NewProductParams, now time.Time) (*Product, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(params.Category) == "" {
		return nil, ErrInvalidCategory
	}
	if !params.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if strings.TrimSpace(params.Unit) == "" {
		return nil, ErrInvalidUnit
	}
	if params.Stock < 0 {
		return nil, ErrNegativeStock
	}

	p := &Product{
		id:          params.ID,
		supplierID:  params.SupplierID,
		name:        params.Name,
		description: params.Description,
		category:    params.Category,
		price:       params.Price,
		unit:        params.Unit,
		stock:       params.Stock,
		negotiable:  params.Negotiable,
		discount:    params.Discount,
		image:       params.Image,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
		changes:     NewChangeTracker(),
		events:      make([]DomainEvent, 0),
	}

	p.recordEvent(&ProductCreatedEvent{
		ProductID:  p.id,
		SupplierID: p.supplierID,
		Name:       p.name,
		Category:   p.category,
		Price:      p.price,
		Unit:       p.unit,
		Stock:      p.stock,
		Negotiable: p.negotiable,
		CreatedAt:  now,
	})

	return p, nil
}

// ReconstructParams carries persisted state into ReconstructProduct.
type ReconstructParams struct {
	NewProductParams
	Rating    Rating
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReconstructProduct reconstitutes a Product from storage without validation or events.
func ReconstructProduct(params ReconstructParams) *Product {
	return &Product{
		id:          params.ID,
		supplierID:  params.SupplierID,
		name:        params.Name,
		description: params.Description,
		category:    params.Category,
		price:       params.Price,
		unit:        params.Unit,
		stock:       params.Stock,
		negotiable:  params.Negotiable,
		discount:    params.Discount,
		image:       params.Image,
		rating:      params.Rating,
		version:     params.Version,
		createdAt:   params.CreatedAt,
		updatedAt:   params.UpdatedAt,
		changes:     NewChangeTracker(),
		events:      make([]DomainEvent, 0),
	}
}

// Getters
func (p *Product) ID() string                  { return p.id }
func (p *Product) SupplierID() string          { return p.supplierID }
func (p *Product) Name() string                { return p.name }
func (p *Product) Description() string         { return p.description }
func (p *Product) Category() string            { return p.category }
func (p *Product) Price() Money                { return p.price }
func (p *Product) Unit() string                { return p.unit }
func (p *Product) Stock() int64                { return p.stock }
func (p *Product) Negotiable() bool            { return p.negotiable }
func (p *Product) Discount() *Discount         { return p.discount }
func (p *Product) Image() string               { return p.image }
func (p *Product) Rating() Rating              { return p.rating }
func (p *Product) Version() int64              { return p.version }
func (p *Product) CreatedAt() time.Time        { return p.createdAt }
func (p *Product) UpdatedAt() time.Time        { return p.updatedAt }
func (p *Product) Changes() *ChangeTracker     { return p.changes }
func (p *Product) DomainEvents() []DomainEvent { return p.events }

// FinalPrice is the price after any applicable discount.
func (p *Product) FinalPrice(now time.Time) Money {
	return defaultPricingCalculator.FinalPrice(p.price, p.discount, now)
}

// Snapshot captures the fields the mutation observer compares.
func (p *Product) Snapshot() Snapshot {
	price := p.price
	stock := p.stock
	return Snapshot{Price: &price, Stock: &stock}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *Money
	Unit        *string
	Stock       *int64
	Negotiable  *bool
	Discount    *Discount
	Image       *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil && p.Price == nil &&
		p.Unit == nil && p.Stock == nil && p.Negotiable == nil && p.Discount == nil && p.Image == nil
}

// Apply validates and applies every present field. Fields whose value does not
// change are not marked dirty. When anything changed a single update event is
// recorded and the timestamp moves to now.
func (p *Product) Apply(patch Patch, now time.Time) error {
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return ErrEmptyName
		}
		if *patch.Name != p.name {
			p.name = *patch.Name
			p.changes.MarkDirty(FieldName)
		}
	}

	if patch.Description != nil && *patch.Description != p.description {
		p.description = *patch.Description
		p.changes.MarkDirty(FieldDescription)
	}

	if patch.Category != nil {
		if strings.TrimSpace(*patch.Category) == "" {
			return ErrInvalidCategory
		}
		if *patch.Category != p.category {
			p.category = *patch.Category
			p.changes.MarkDirty(FieldCategory)
		}
	}

	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return ErrInvalidPrice
		}
		if !patch.Price.Equal(p.price) {
			p.price = *patch.Price
			p.changes.MarkDirty(FieldPrice)
		}
	}

	if patch.Unit != nil {
		if strings.TrimSpace(*patch.Unit) == "" {
			return ErrInvalidUnit
		}
		if *patch.Unit != p.unit {
			p.unit = *patch.Unit
			p.changes.MarkDirty(FieldUnit)
		}
	}

	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return ErrNegativeStock
		}
		if *patch.Stock != p.stock {
			p.stock = *patch.Stock
			p.changes.MarkDirty(FieldStock)
		}
	}

	if patch.Negotiable != nil && *patch.Negotiable != p.negotiable {
		p.negotiable = *patch.Negotiable
		p.changes.MarkDirty(FieldNegotiable)
	}

	if patch.Discount != nil && !patch.Discount.Equal(p.discount) {
		p.discount = patch.Discount
		p.changes.MarkDirty(FieldDiscount)
	}

	if patch.Image != nil && *patch.Image != p.image {
		p.image = *patch.Image
		p.changes.MarkDirty(FieldImage)
	}

	if !p.changes.HasChanges() {
		return nil
	}

	p.updatedAt = now
	p.recordEvent(&ProductUpdatedEvent{
		ProductID:     p.id,
		ChangedFields: p.changes.DirtyFields(),
		Price:         p.price,
		Stock:         p.stock,
		UpdatedAt:     now,
	})
	return nil
}

// MarkDeleted records the deletion event.
func (p *Product) MarkDeleted(by string, now time.Time) {
	p.recordEvent(&ProductDeletedEvent{
		ProductID: p.id,
		DeletedBy: by,
		DeletedAt: now,
	})
}

// MarkPersisted advances the version after a successful write and resets tracking.
func (p *Product) MarkPersisted() {
	if p.changes.HasChanges() {
		p.version++
	}
	p.changes.Clear()
}

func (p *Product) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// ClearEvents clears all domain events (after publishing).
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}
