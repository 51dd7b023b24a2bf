package contracts

import (
	"context"
	"time"

	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
)

// QuoteRepository persists quotes together with their pending domain events.
type QuoteRepository interface {
	// GetByID returns domain.ErrQuoteNotFound when the quote does not exist.
	GetByID(ctx context.Context, quoteID string) (*domain.Quote, error)

	Insert(ctx context.Context, quote *domain.Quote) error

	// UpdateIfVersion writes the transition only while the stored version
	// still equals expected. Otherwise it returns domain.ErrQuoteConflict.
	UpdateIfVersion(ctx context.Context, quote *domain.Quote, expected int64) error

	ListByBuyer(ctx context.Context, buyerID string, filter ListFilter) ([]*domain.Quote, error)
	ListBySupplier(ctx context.Context, supplierID string, filter ListFilter) ([]*domain.Quote, error)
}

// ListFilter narrows quote listings. Results are newest first.
type ListFilter struct {
	Status *domain.Status
	Limit  int
}

// ProductReader loads the product a quote is requested against.
type ProductReader interface {
	GetByID(ctx context.Context, productID string) (*productdomain.Product, error)
}

// QuoteDTO is the read shape of a quote.
type QuoteDTO struct {
	QuoteID         string               `json:"id"`
	ProductID       string               `json:"product_id"`
	BuyerID         string               `json:"buyer_id"`
	SupplierID      string               `json:"supplier_id"`
	ProductSnapshot SnapshotDTO          `json:"product_snapshot"`
	Quantity        int64                `json:"quantity_requested"`
	Status          domain.Status        `json:"status"`
	CounterPrice    *productdomain.Money `json:"counter_price,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	SupplierMessage string               `json:"supplier_message,omitempty"`
	History         []HistoryDTO         `json:"history"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type SnapshotDTO struct {
	Name  string              `json:"name"`
	Unit  string              `json:"unit"`
	Price productdomain.Money `json:"price"`
}

type HistoryDTO struct {
	From    domain.Status `json:"from"`
	To      domain.Status `json:"to"`
	Action  domain.Action `json:"action"`
	ActorID string        `json:"actor_id"`
	Side    domain.Side   `json:"side"`
	At      time.Time     `json:"at"`
}

// ToDTO projects a quote for reads.
func ToDTO(q *domain.Quote) *QuoteDTO {
	history := make([]HistoryDTO, 0, len(q.History()))
	for _, h := range q.History() {
		history = append(history, HistoryDTO{From: h.From, To: h.To, Action: h.Action, ActorID: h.ActorID, Side: h.Side, At: h.At})
	}
	snap := q.Snapshot()
	return &QuoteDTO{
		QuoteID:         q.ID(),
		ProductID:       q.ProductID(),
		BuyerID:         q.BuyerID(),
		SupplierID:      q.SupplierID(),
		ProductSnapshot: SnapshotDTO{Name: snap.Name, Unit: snap.Unit, Price: snap.Price},
		Quantity:        q.Quantity(),
		Status:          q.Status(),
		CounterPrice:    q.CounterPrice(),
		Notes:           q.Notes(),
		SupplierMessage: q.SupplierMessage(),
		History:         history,
		CreatedAt:       q.CreatedAt(),
		UpdatedAt:       q.UpdatedAt(),
	}
}
