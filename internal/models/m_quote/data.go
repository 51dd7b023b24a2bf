package m_quote

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the quotes table.
type Data struct {
	QuoteID         string              `spanner:"quote_id"`
	ProductID       string              `spanner:"product_id"`
	BuyerID         string              `spanner:"buyer_id"`
	SupplierID      string              `spanner:"supplier_id"`
	ProductName     string              `spanner:"product_name"`
	ProductUnit     string              `spanner:"product_unit"`
	ProductPrice    big.Rat             `spanner:"product_price"`
	Quantity        int64               `spanner:"quantity"`
	Status          string              `spanner:"status"`
	CounterPrice    spanner.NullNumeric `spanner:"counter_price"`
	Notes           string              `spanner:"notes"`
	SupplierMessage string              `spanner:"supplier_message"`
	History         spanner.NullJSON    `spanner:"history"`
	CreatedAt       time.Time           `spanner:"created_at"`
	UpdatedAt       time.Time           `spanner:"updated_at"`
	Version         int64               `spanner:"version"`
}

// HistoryEntry is one element of the history JSON column.
type HistoryEntry struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Action  string    `json:"action"`
	ActorID string    `json:"actor_id"`
	Role    string    `json:"role"`
	At      time.Time `json:"at"`
}
