package observer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

type subject struct{}

func (subject) ID() string   { return "p-1" }
func (subject) Name() string { return "Cement" }

type recorder struct {
	events []domain.ChangeEvent
	err    error
}

func (r *recorder) NotifyWatchers(_ context.Context, _ domain.Subject, ev domain.ChangeEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func money(v int64) *domain.Money {
	m := domain.MoneyFromInt(v)
	return &m
}

func stock(v int64) *int64 { return &v }

func TestOnProductUpdated(t *testing.T) {
	tests := []struct {
		name   string
		before domain.Snapshot
		after  domain.Snapshot
		kinds  []domain.ChangeKind
	}{
		{"price drop", domain.Snapshot{Price: money(100)}, domain.Snapshot{Price: money(80)}, []domain.ChangeKind{domain.ChangePriceDrop}},
		{"same price", domain.Snapshot{Price: money(100)}, domain.Snapshot{Price: money(100)}, nil},
		{"restock", domain.Snapshot{Stock: stock(0)}, domain.Snapshot{Stock: stock(5)}, []domain.ChangeKind{domain.ChangeBackInStock}},
		{"sold out", domain.Snapshot{Stock: stock(5)}, domain.Snapshot{Stock: stock(0)}, nil},
		{"stock was absent", domain.Snapshot{}, domain.Snapshot{Stock: stock(3)}, []domain.ChangeKind{domain.ChangeBackInStock}},
		{
			"both",
			domain.Snapshot{Price: money(100), Stock: stock(0)},
			domain.Snapshot{Price: money(90), Stock: stock(2)},
			[]domain.ChangeKind{domain.ChangePriceDrop, domain.ChangeBackInStock},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			obs := New(rec, nil)

			events := obs.OnProductUpdated(context.Background(), subject{}, tt.before, tt.after)

			kinds := make([]domain.ChangeKind, 0, len(events))
			for _, ev := range events {
				kinds = append(kinds, ev.Kind)
			}
			if tt.kinds == nil {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tt.kinds, kinds)
			}
			assert.Len(t, rec.events, len(tt.kinds))
		})
	}
}

func TestOnProductUpdated_PriceDropPayload(t *testing.T) {
	rec := &recorder{}
	events := New(rec, nil).OnProductUpdated(context.Background(), subject{},
		domain.Snapshot{Price: money(100)}, domain.Snapshot{Price: money(80)})

	require.Len(t, events, 1)
	assert.Equal(t, "100", events[0].OldPrice.String())
	assert.Equal(t, "80", events[0].NewPrice.String())
}

func TestOnProductUpdated_NotifierErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := &recorder{err: errors.New("directory unavailable")}

	events := New(rec, zap.New(core)).OnProductUpdated(context.Background(), subject{},
		domain.Snapshot{Price: money(100), Stock: stock(0)}, domain.Snapshot{Price: money(50), Stock: stock(1)})

	assert.Len(t, events, 2)
	assert.Len(t, rec.events, 2)
	assert.Equal(t, 2, logs.FilterMessage("failed to notify wishlist watchers").Len())
}
