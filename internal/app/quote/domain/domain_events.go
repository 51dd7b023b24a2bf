package domain

import (
	"time"

	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// QuoteRequestedEvent is emitted when a buyer opens a negotiation.
type QuoteRequestedEvent struct {
	QuoteID    string              `json:"quote_id"`
	ProductID  string              `json:"product_id"`
	BuyerID    string              `json:"buyer_id"`
	SupplierID string              `json:"supplier_id"`
	Quantity   int64               `json:"quantity"`
	Price      productdomain.Money `json:"price"`
	CreatedAt  time.Time           `json:"created_at"`
}

func (e *QuoteRequestedEvent) EventType() string   { return "quote.requested" }
func (e *QuoteRequestedEvent) AggregateID() string { return e.QuoteID }

// QuoteTransitionedEvent is emitted for every applied transition.
type QuoteTransitionedEvent struct {
	QuoteID      string               `json:"quote_id"`
	From         Status               `json:"from"`
	To           Status               `json:"to"`
	Action       Action               `json:"action"`
	ActorID      string               `json:"actor_id"`
	Side         Side                 `json:"side"`
	CounterPrice *productdomain.Money `json:"counter_price,omitempty"`
	At           time.Time            `json:"at"`
}

func (e *QuoteTransitionedEvent) EventType() string   { return "quote.transitioned" }
func (e *QuoteTransitionedEvent) AggregateID() string { return e.QuoteID }

// QuoteConvertedEvent hands an agreed quote to order creation.
type QuoteConvertedEvent struct {
	QuoteID     string              `json:"quote_id"`
	ProductID   string              `json:"product_id"`
	BuyerID     string              `json:"buyer_id"`
	SupplierID  string              `json:"supplier_id"`
	Quantity    int64               `json:"quantity"`
	UnitPrice   productdomain.Money `json:"unit_price"`
	Total       productdomain.Money `json:"total"`
	ConvertedAt time.Time           `json:"converted_at"`
}

func (e *QuoteConvertedEvent) EventType() string   { return "quote.converted" }
func (e *QuoteConvertedEvent) AggregateID() string { return e.QuoteID }
