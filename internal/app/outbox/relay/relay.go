// Package relay moves committed outbox events to downstream consumers.
//
// Delivery is at least once: an event whose status write fails after a
// successful publish is published again on the next poll. Run one relay per
// database.
package relay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
)

// Store is the outbox as the relay sees it.
type Store interface {
	FindPending(ctx context.Context, limit int) ([]*outbox.Record, error)
	SaveOutcome(ctx context.Context, rec *outbox.Record) error
}

// Publisher hands one event to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, rec *outbox.Record) error
}

type Config struct {
	BatchSize    int
	PollInterval time.Duration
	// MaxRetries is the number of failed publishes after which an event is
	// parked as failed.
	MaxRetries int
}

type Relay struct {
	store     Store
	publisher Publisher
	cfg       Config
	clock     clock.Clock
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func New(store Store, publisher Publisher, cfg Config, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	return &Relay{store: store, publisher: publisher, cfg: cfg, clock: clk, log: log, metrics: m}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	r.log.Info("outbox relay started",
		zap.Int("batch_size", r.cfg.BatchSize),
		zap.Duration("poll_interval", r.cfg.PollInterval),
	)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				r.log.Error("outbox relay batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch of pending events and returns how many
// were published.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	pending, err := r.store.FindPending(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, rec := range pending {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}
		if r.process(ctx, rec) {
			published++
		}
	}
	return published, nil
}

func (r *Relay) process(ctx context.Context, rec *outbox.Record) bool {
	pubErr := r.publisher.Publish(ctx, rec)
	now := r.clock.Now()

	if pubErr == nil {
		rec.Status = m_outbox.StatusCompleted
		rec.ErrorMessage = ""
		rec.ProcessedAt = &now
	} else {
		rec.RetryCount++
		rec.ErrorMessage = pubErr.Error()
		if rec.RetryCount >= int64(r.cfg.MaxRetries) {
			rec.Status = m_outbox.StatusFailed
			rec.ProcessedAt = &now
			r.log.Warn("outbox event parked after retries",
				zap.String("event_id", rec.EventID),
				zap.String("event_type", rec.EventType),
				zap.Int64("retry_count", rec.RetryCount),
				zap.Error(pubErr),
			)
		} else {
			r.log.Debug("outbox publish failed, will retry",
				zap.String("event_id", rec.EventID),
				zap.Error(pubErr),
			)
		}
	}

	if err := r.store.SaveOutcome(ctx, rec); err != nil {
		r.log.Error("failed to record outbox outcome",
			zap.String("event_id", rec.EventID),
			zap.String("status", rec.Status),
			zap.Error(err),
		)
		return pubErr == nil
	}
	if rec.Status != m_outbox.StatusPending {
		r.metrics.OutboxRelayed(rec.EventType, rec.Status)
	}
	return pubErr == nil
}
