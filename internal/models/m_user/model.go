package m_user

import "cloud.google.com/go/spanner"

// Model provides a facade for type-safe operations on the users table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// UpsertMut writes a user row. Used by fixtures and account sync.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		Columns(),
		[]interface{}{data.UserID, data.Name, data.Role, data.DeviceTokens, data.CreatedAt},
	)
}
