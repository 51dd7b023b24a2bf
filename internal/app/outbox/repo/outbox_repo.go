package repo

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
)

// OutboxRepo builds outbox mutations for Spanner commit plans.
type OutboxRepo struct {
	model *m_outbox.Model
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{model: m_outbox.NewModel()}
}

// InsertMut creates a mutation for inserting an outbox record.
func (r *OutboxRepo) InsertMut(rec *outbox.Record) *spanner.Mutation {
	return r.model.InsertMut(&m_outbox.Data{
		EventID:     rec.EventID,
		EventType:   rec.EventType,
		AggregateID: rec.AggregateID,
		Payload:     spanner.NullJSON{Value: jsonValue(rec.Payload), Valid: rec.Payload != ""},
		Status:      rec.Status,
		RetryCount:  0,
	})
}

// InsertMuts creates one mutation per record.
func (r *OutboxRepo) InsertMuts(recs []*outbox.Record) []*spanner.Mutation {
	muts := make([]*spanner.Mutation, 0, len(recs))
	for _, rec := range recs {
		muts = append(muts, r.InsertMut(rec))
	}
	return muts
}
