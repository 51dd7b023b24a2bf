package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/queries/list_events"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/pkg/query"
)

// EventsReadModel reads the outbox_events table.
type EventsReadModel struct {
	client *spanner.Client
}

func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{client: client}
}

// ListEvents retrieves events newest first with optional filters.
func (r *EventsReadModel) ListEvents(ctx context.Context, req *list_events.Request) ([]*outbox.Record, int64, error) {
	q := query.From(m_outbox.TableName).Select(m_outbox.Columns()...)
	if req.EventType != nil {
		q = q.Where(query.Eq(m_outbox.EventType, *req.EventType))
	}
	if req.AggregateID != nil {
		q = q.Where(query.Eq(m_outbox.AggregateID, *req.AggregateID))
	}
	if req.Status != nil {
		q = q.Where(query.Eq(m_outbox.Status, *req.Status))
	}

	total, err := r.count(ctx, q.Count().Build())
	if err != nil {
		return nil, 0, err
	}

	iter := r.client.Single().Query(ctx, q.OrderBy(m_outbox.CreatedAt, query.Desc).Limit(int64(req.Limit)).Build())
	defer iter.Stop()

	var events []*outbox.Record
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
		}

		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, dataToRecord(&data))
	}

	return events, total, nil
}

func (r *EventsReadModel) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	var total int64
	if err := row.Columns(&total); err != nil {
		return 0, fmt.Errorf("failed to parse event count: %w", err)
	}
	return total, nil
}

func dataToRecord(data *m_outbox.Data) *outbox.Record {
	rec := &outbox.Record{
		EventID:     data.EventID,
		EventType:   data.EventType,
		AggregateID: data.AggregateID,
		Status:      data.Status,
		CreatedAt:   data.CreatedAt,
		RetryCount:  data.RetryCount,
	}
	if data.ErrorMessage.Valid {
		rec.ErrorMessage = data.ErrorMessage.StringVal
	}
	if data.Payload.Valid {
		rec.Payload = data.Payload.String()
	}
	if data.ProcessedAt.Valid {
		t := data.ProcessedAt.Time
		rec.ProcessedAt = &t
	}
	return rec
}
