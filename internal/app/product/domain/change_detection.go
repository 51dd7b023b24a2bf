package domain

// Snapshot holds the observed fields of a product at one moment. A nil field
// means the value was absent in storage.
type Snapshot struct {
	Price *Money
	Stock *int64
}

// ChangeKind names a watcher-relevant product change.
type ChangeKind string

const (
	ChangePriceDrop   ChangeKind = "price_drop"
	ChangeBackInStock ChangeKind = "back_in_stock"
)

// ChangeEvent is a detected change. Prices are set for ChangePriceDrop only.
type ChangeEvent struct {
	Kind     ChangeKind
	OldPrice *Money
	NewPrice *Money
}

// DetectChanges compares two snapshots of the same product.
//
// A price drop needs both prices present and the new one strictly lower.
// Back in stock needs the old stock absent or zero and the new stock present
// and positive. Both may fire for one update, price drop first.
func DetectChanges(before, after Snapshot) []ChangeEvent {
	var events []ChangeEvent

	if before.Price != nil && after.Price != nil && after.Price.LessThan(*before.Price) {
		oldPrice, newPrice := *before.Price, *after.Price
		events = append(events, ChangeEvent{
			Kind:     ChangePriceDrop,
			OldPrice: &oldPrice,
			NewPrice: &newPrice,
		})
	}

	wasOut := before.Stock == nil || *before.Stock == 0
	if wasOut && after.Stock != nil && *after.Stock > 0 {
		events = append(events, ChangeEvent{Kind: ChangeBackInStock})
	}

	return events
}

// Subject identifies the product a change belongs to.
type Subject interface {
	ID() string
	Name() string
}
