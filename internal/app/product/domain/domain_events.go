package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ProductCreatedEvent is emitted when a supplier lists a product.
type ProductCreatedEvent struct {
	ProductID  string    `json:"product_id"`
	SupplierID string    `json:"supplier_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      Money     `json:"price"`
	Unit       string    `json:"unit"`
	Stock      int64     `json:"stock"`
	Negotiable bool      `json:"negotiable"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) EventType() string   { return "product.created" }
func (e *ProductCreatedEvent) AggregateID() string { return e.ProductID }

// ProductUpdatedEvent is emitted once per committed update.
type ProductUpdatedEvent struct {
	ProductID     string    `json:"product_id"`
	ChangedFields []string  `json:"changed_fields"`
	Price         Money     `json:"price"`
	Stock         int64     `json:"stock"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) EventType() string   { return "product.updated" }
func (e *ProductUpdatedEvent) AggregateID() string { return e.ProductID }

// ProductDeletedEvent is emitted when a product is removed from the catalog.
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	DeletedBy string    `json:"deleted_by"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (e *ProductDeletedEvent) EventType() string   { return "product.deleted" }
func (e *ProductDeletedEvent) AggregateID() string { return e.ProductID }
