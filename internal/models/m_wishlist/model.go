package m_wishlist

import "cloud.google.com/go/spanner"

// Model provides a facade for type-safe operations on the wishlist_items table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// UpsertMut saves a product to a user's wishlist.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, Columns(), []interface{}{data.UserID, data.ProductID, data.AddedAt})
}

