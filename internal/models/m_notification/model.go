package m_notification

import "cloud.google.com/go/spanner"

// Model provides a facade for type-safe operations on the notifications table.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a notification.
func (m *Model) InsertMut(row *Row) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]interface{}{
			row.NotificationID,
			row.UserID,
			row.Type,
			row.Title,
			row.Body,
			row.Data,
			row.Read,
			row.CreatedAt,
		},
	)
}
