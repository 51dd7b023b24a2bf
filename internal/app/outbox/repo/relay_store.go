package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/pkg/query"
)

// RelayStore feeds the outbox relay from Spanner.
type RelayStore struct {
	client *spanner.Client
	model  *m_outbox.Model
}

func NewRelayStore(client *spanner.Client) *RelayStore {
	return &RelayStore{client: client, model: m_outbox.NewModel()}
}

// FindPending returns up to limit pending events, oldest first.
func (s *RelayStore) FindPending(ctx context.Context, limit int) ([]*outbox.Record, error) {
	stmt := query.From(m_outbox.TableName).
		ForceIndex(m_outbox.IndexByStatus).
		Select(m_outbox.Columns()...).
		Where(query.Eq(m_outbox.Status, m_outbox.StatusPending)).
		OrderBy(m_outbox.CreatedAt, query.Asc).
		Limit(int64(limit)).
		Build()

	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var recs []*outbox.Record
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return recs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate pending events: %w", err)
		}
		var data m_outbox.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to scan pending event: %w", err)
		}
		recs = append(recs, dataToRecord(&data))
	}
}

// SaveOutcome writes status, retry count, error and processed_at back.
func (s *RelayStore) SaveOutcome(ctx context.Context, rec *outbox.Record) error {
	var processedAt spanner.NullTime
	if rec.ProcessedAt != nil {
		processedAt = spanner.NullTime{Time: *rec.ProcessedAt, Valid: true}
	}
	errMsg := spanner.NullString{StringVal: rec.ErrorMessage, Valid: rec.ErrorMessage != ""}

	mut := s.model.StatusMut(rec.EventID, rec.Status, processedAt, rec.RetryCount, errMsg)
	if _, err := s.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		return fmt.Errorf("failed to update outbox event %s: %w", rec.EventID, err)
	}
	return nil
}
