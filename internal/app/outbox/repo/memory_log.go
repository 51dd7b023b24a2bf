package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/queries/list_events"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
)

// MemoryLog is the in-process outbox used by the memory storage driver.
type MemoryLog struct {
	mu      sync.RWMutex
	records []*outbox.Record
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append stores records. Callers hold their aggregate lock while appending so
// the aggregate write and its events become visible together.
func (l *MemoryLog) Append(recs ...*outbox.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range recs {
		cp := *rec
		l.records = append(l.records, &cp)
	}
}

// ListEvents mirrors the Spanner read model: filters, newest first, limited.
func (l *MemoryLog) ListEvents(_ context.Context, req *list_events.Request) ([]*outbox.Record, int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]*outbox.Record, 0)
	for _, rec := range l.records {
		if req.EventType != nil && rec.EventType != *req.EventType {
			continue
		}
		if req.AggregateID != nil && rec.AggregateID != *req.AggregateID {
			continue
		}
		if req.Status != nil && rec.Status != *req.Status {
			continue
		}
		cp := *rec
		matched = append(matched, &cp)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if req.Limit > 0 && len(matched) > req.Limit {
		matched = matched[:req.Limit]
	}
	return matched, total, nil
}

// FindPending returns up to limit pending records in append order.
func (l *MemoryLog) FindPending(_ context.Context, limit int) ([]*outbox.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*outbox.Record
	for _, rec := range l.records {
		if rec.Status != m_outbox.StatusPending {
			continue
		}
		cp := *rec
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SaveOutcome replaces the stored relay fields of rec.
func (l *MemoryLog) SaveOutcome(_ context.Context, rec *outbox.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, stored := range l.records {
		if stored.EventID != rec.EventID {
			continue
		}
		stored.Status = rec.Status
		stored.RetryCount = rec.RetryCount
		stored.ErrorMessage = rec.ErrorMessage
		stored.ProcessedAt = rec.ProcessedAt
		return nil
	}
	return fmt.Errorf("outbox event %s not found", rec.EventID)
}
