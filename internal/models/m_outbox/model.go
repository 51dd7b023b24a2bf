package m_outbox

import "cloud.google.com/go/spanner"

// Model builds mutations for outbox_events.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut stamps created_at with the commit timestamp, so events order by
// commit rather than by the writer's clock.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]interface{}{
			data.EventID,
			data.EventType,
			data.AggregateID,
			data.Payload,
			data.Status,
			spanner.CommitTimestamp,
			data.ProcessedAt,
			data.RetryCount,
			data.ErrorMessage,
		},
	)
}

// StatusMut records the relay outcome of one event.
func (m *Model) StatusMut(eventID, status string, processedAt spanner.NullTime, retryCount int64, errorMessage spanner.NullString) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, ProcessedAt, RetryCount, ErrorMessage},
		[]interface{}{eventID, status, processedAt, retryCount, errorMessage},
	)
}
