package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
)

// StreamPublisher appends events to a Redis stream, trimmed approximately
// to MaxLen entries.
type StreamPublisher struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

func NewStreamPublisher(client redis.UniversalClient, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Publish(ctx context.Context, rec *outbox.Record) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: streamValues(rec),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func streamValues(rec *outbox.Record) map[string]interface{} {
	return map[string]interface{}{
		"event_id":     rec.EventID,
		"event_type":   rec.EventType,
		"aggregate_id": rec.AggregateID,
		"payload":      rec.Payload,
		"created_at":   rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// LogPublisher writes events to the log. Used when no stream is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, rec *outbox.Record) error {
	p.log.Info("outbox event",
		zap.String("event_id", rec.EventID),
		zap.String("event_type", rec.EventType),
		zap.String("aggregate_id", rec.AggregateID),
	)
	return nil
}
