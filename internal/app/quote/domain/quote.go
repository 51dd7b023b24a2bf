package domain

import (
	"strings"
	"time"

	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
)

// ProductSnapshot is the product terms captured when the quote was requested.
// It is never refreshed from the product.
type ProductSnapshot struct {
	Name  string
	Unit  string
	Price productdomain.Money
}

// HistoryEntry records one applied transition.
type HistoryEntry struct {
	From    Status
	To      Status
	Action  Action
	ActorID string
	Side    Side
	At      time.Time
}

// TransitionInput carries the optional payload of a transition.
type TransitionInput struct {
	CounterPrice    *productdomain.Money
	SupplierMessage *string
}

// Quote is the aggregate root of one buyer/supplier negotiation.
type Quote struct {
	id              string
	productID       string
	buyerID         string
	supplierID      string
	snapshot        ProductSnapshot
	quantity        int64
	status          Status
	counterPrice    *productdomain.Money
	notes           string
	supplierMessage string
	history         []HistoryEntry
	createdAt       time.Time
	updatedAt       time.Time
	version         int64

	events []DomainEvent
}

// NewQuote opens a negotiation on a negotiable product. Stock is not checked
// or reserved here.
func NewQuote(id string, buyer actor.Actor, product *productdomain.Product, quantity int64, notes string, now time.Time) (*Quote, error) {
	if !buyer.CanRequestQuotes() {
		return nil, ErrBuyerOnly
	}
	if product.SupplierID() == buyer.UserID {
		return nil, ErrOwnProduct
	}
	if !product.Negotiable() {
		return nil, ErrNotNegotiable
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	q := &Quote{
		id:         id,
		productID:  product.ID(),
		buyerID:    buyer.UserID,
		supplierID: product.SupplierID(),
		snapshot: ProductSnapshot{
			Name:  product.Name(),
			Unit:  product.Unit(),
			Price: product.Price(),
		},
		quantity:  quantity,
		status:    StatusPending,
		notes:     strings.TrimSpace(notes),
		history:   make([]HistoryEntry, 0),
		createdAt: now,
		updatedAt: now,
		version:   1,
	}

	q.recordEvent(&QuoteRequestedEvent{
		QuoteID:    q.id,
		ProductID:  q.productID,
		BuyerID:    q.buyerID,
		SupplierID: q.supplierID,
		Quantity:   q.quantity,
		Price:      q.snapshot.Price,
		CreatedAt:  now,
	})
	return q, nil
}

// ReconstructParams carries persisted state into ReconstructQuote.
type ReconstructParams struct {
	ID              string
	ProductID       string
	BuyerID         string
	SupplierID      string
	Snapshot        ProductSnapshot
	Quantity        int64
	Status          Status
	CounterPrice    *productdomain.Money
	Notes           string
	SupplierMessage string
	History         []HistoryEntry
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

// ReconstructQuote reconstitutes a Quote from storage without validation or events.
func ReconstructQuote(p ReconstructParams) *Quote {
	history := make([]HistoryEntry, len(p.History))
	copy(history, p.History)
	return &Quote{
		id:              p.ID,
		productID:       p.ProductID,
		buyerID:         p.BuyerID,
		supplierID:      p.SupplierID,
		snapshot:        p.Snapshot,
		quantity:        p.Quantity,
		status:          p.Status,
		counterPrice:    p.CounterPrice,
		notes:           p.Notes,
		supplierMessage: p.SupplierMessage,
		history:         history,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		version:         p.Version,
	}
}

// Getters
func (q *Quote) ID() string                { return q.id }
func (q *Quote) ProductID() string         { return q.productID }
func (q *Quote) BuyerID() string           { return q.buyerID }
func (q *Quote) SupplierID() string        { return q.supplierID }
func (q *Quote) Snapshot() ProductSnapshot { return q.snapshot }
func (q *Quote) Quantity() int64           { return q.quantity }
func (q *Quote) Status() Status            { return q.status }
func (q *Quote) Notes() string             { return q.notes }
func (q *Quote) SupplierMessage() string   { return q.supplierMessage }
func (q *Quote) CreatedAt() time.Time      { return q.createdAt }
func (q *Quote) UpdatedAt() time.Time      { return q.updatedAt }
func (q *Quote) Version() int64            { return q.version }
func (q *Quote) DomainEvents() []DomainEvent {
	return q.events
}

// CounterPrice returns a copy of the supplier's counter price, or nil.
func (q *Quote) CounterPrice() *productdomain.Money {
	if q.counterPrice == nil {
		return nil
	}
	p := *q.counterPrice
	return &p
}

// History returns a copy of the applied transitions, oldest first.
func (q *Quote) History() []HistoryEntry {
	out := make([]HistoryEntry, len(q.history))
	copy(out, q.history)
	return out
}

// AgreedUnitPrice is the counter price when one was made, else the snapshot price.
func (q *Quote) AgreedUnitPrice() productdomain.Money {
	if q.counterPrice != nil {
		return *q.counterPrice
	}
	return q.snapshot.Price
}

// SideOf returns the position of a in this negotiation.
func (q *Quote) SideOf(a actor.Actor) (Side, error) {
	switch {
	case a.IsAdmin():
		return SideAdmin, nil
	case a.IsBuyer() && a.UserID == q.buyerID:
		return SideBuyer, nil
	case a.IsSupplier() && a.UserID == q.supplierID:
		return SideSupplier, nil
	}
	return "", ErrNotQuoteParty
}

// Counterparties returns the user IDs to notify about a move by side.
// An admin move concerns both parties.
func (q *Quote) Counterparties(side Side) []string {
	switch side {
	case SideBuyer:
		return []string{q.supplierID}
	case SideSupplier:
		return []string{q.buyerID}
	default:
		return []string{q.buyerID, q.supplierID}
	}
}

// Transition applies action by a. Transitions are not idempotent: repeating a
// move that already happened is rejected like any other forbidden move.
func (q *Quote) Transition(a actor.Actor, action Action, in TransitionInput, now time.Time) (HistoryEntry, error) {
	side, err := q.SideOf(a)
	if err != nil {
		return HistoryEntry{}, err
	}

	from := q.status
	to, ok := NextStatus(from, side, action)
	if !ok {
		return HistoryEntry{}, invalidTransition(from, side, action)
	}

	if action == ActionCounter {
		if in.CounterPrice == nil || !in.CounterPrice.IsPositive() {
			return HistoryEntry{}, ErrInvalidCounterPrice
		}
		if q.counterPrice != nil && q.counterPrice.Equal(*in.CounterPrice) {
			return HistoryEntry{}, invalidTransition(from, side, action)
		}
		price := *in.CounterPrice
		q.counterPrice = &price
	}

	if side == SideSupplier && in.SupplierMessage != nil {
		q.supplierMessage = strings.TrimSpace(*in.SupplierMessage)
	}

	entry := HistoryEntry{From: from, To: to, Action: action, ActorID: a.UserID, Side: side, At: now}
	q.status = to
	q.history = append(q.history, entry)
	q.updatedAt = now
	q.version++

	q.recordEvent(&QuoteTransitionedEvent{
		QuoteID:      q.id,
		From:         from,
		To:           to,
		Action:       action,
		ActorID:      a.UserID,
		Side:         side,
		CounterPrice: q.CounterPrice(),
		At:           now,
	})

	if to == StatusConverted {
		unit := q.AgreedUnitPrice()
		q.recordEvent(&QuoteConvertedEvent{
			QuoteID:     q.id,
			ProductID:   q.productID,
			BuyerID:     q.buyerID,
			SupplierID:  q.supplierID,
			Quantity:    q.quantity,
			UnitPrice:   unit,
			Total:       productdomain.NewPricingCalculator().LineTotal(unit, q.quantity),
			ConvertedAt: now,
		})
	}

	return entry, nil
}

func (q *Quote) recordEvent(event DomainEvent) {
	q.events = append(q.events, event)
}

// ClearEvents clears all domain events (after publishing).
func (q *Quote) ClearEvents() {
	q.events = nil
}
