package m_quote

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the quotes table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a quote.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]interface{}{
			data.QuoteID,
			data.ProductID,
			data.BuyerID,
			data.SupplierID,
			data.ProductName,
			data.ProductUnit,
			data.ProductPrice,
			data.Quantity,
			data.Status,
			data.CounterPrice,
			data.Notes,
			data.SupplierMessage,
			data.History,
			data.CreatedAt,
			data.UpdatedAt,
			data.Version,
		},
	)
}

// TransitionMut writes the negotiable columns of a quote along with its
// version. The product snapshot columns are never part of an update.
func (m *Model) TransitionMut(data *Data) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{QuoteID, Status, CounterPrice, SupplierMessage, History, UpdatedAt, Version},
		[]interface{}{
			data.QuoteID,
			data.Status,
			data.CounterPrice,
			data.SupplierMessage,
			data.History,
			data.UpdatedAt,
			data.Version,
		},
	)
}
