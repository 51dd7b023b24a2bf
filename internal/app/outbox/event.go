// Package outbox records domain events in the same commit as the aggregate
// that produced them, for downstream consumers such as order creation.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
)

// Event is implemented by every domain event.
type Event interface {
	EventType() string
	AggregateID() string
}

// Record is an enriched domain event ready for persistence.
type Record struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
	CreatedAt   time.Time
	ProcessedAt *time.Time

	RetryCount   int64
	ErrorMessage string
}

// Enrich converts a domain event to an outbox record with metadata.
func Enrich(event Event, now time.Time) (*Record, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s event: %w", event.EventType(), err)
	}

	return &Record{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     string(payload),
		Status:      m_outbox.StatusPending,
		CreatedAt:   now,
	}, nil
}

// EnrichAll enriches a batch of events in order.
func EnrichAll[E Event](events []E, now time.Time) ([]*Record, error) {
	records := make([]*Record, 0, len(events))
	for _, ev := range events {
		rec, err := Enrich(ev, now)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
