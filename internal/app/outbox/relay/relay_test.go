package relay

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/light-bringer/rawsy-service/internal/app/outbox"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/queries/list_events"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

type scriptedPublisher struct {
	fail      map[string]error
	published []string
}

func (p *scriptedPublisher) Publish(_ context.Context, rec *outbox.Record) error {
	if err := p.fail[rec.EventType]; err != nil {
		return err
	}
	p.published = append(p.published, rec.EventID)
	return nil
}

func seed(t *testing.T, log *repo.MemoryLog, now time.Time) {
	t.Helper()
	log.Append(
		&outbox.Record{EventID: "e1", EventType: "quote.requested", AggregateID: "q-1", Status: m_outbox.StatusPending, CreatedAt: now},
		&outbox.Record{EventID: "e2", EventType: "quote.converted", AggregateID: "q-1", Status: m_outbox.StatusPending, CreatedAt: now},
		&outbox.Record{EventID: "e3", EventType: "product.updated", AggregateID: "p-1", Status: m_outbox.StatusPending, CreatedAt: now},
	)
}

func statusOf(t *testing.T, log *repo.MemoryLog, status string) []string {
	t.Helper()
	events, _, err := list_events.NewQuery(log).Execute(context.Background(), &list_events.Request{
		Actor:  actor.Actor{UserID: "admin", Role: actor.RoleAdmin},
		Status: &status,
	})
	require.NoError(t, err)
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.EventID)
	}
	return ids
}

func TestRelay_PublishesAndCompletes(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	store := repo.NewMemoryLog()
	seed(t, store, clk.Now())
	pub := &scriptedPublisher{}

	r := New(store, pub, Config{BatchSize: 10}, clk, zap.NewNop(), nil)
	n, err := r.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"e1", "e2", "e3"}, pub.published)
	assert.ElementsMatch(t, []string{"e1", "e2", "e3"}, statusOf(t, store, m_outbox.StatusCompleted))

	n, err = r.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "completed events are not published twice")
}

func TestRelay_RetriesThenParks(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	store := repo.NewMemoryLog()
	seed(t, store, clk.Now())
	pub := &scriptedPublisher{fail: map[string]error{"quote.converted": errors.New("broker down")}}

	core, logs := observer.New(zapcore.WarnLevel)
	r := New(store, pub, Config{BatchSize: 10, MaxRetries: 2}, clk, zap.New(core), nil)

	_, err := r.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, statusOf(t, store, m_outbox.StatusPending), "first failure stays pending")

	_, err = r.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, statusOf(t, store, m_outbox.StatusPending))
	assert.Equal(t, []string{"e2"}, statusOf(t, store, m_outbox.StatusFailed))

	events, _, err := store.ListEvents(context.Background(), &list_events.Request{})
	require.NoError(t, err)
	for _, e := range events {
		if e.EventID == "e2" {
			assert.Equal(t, int64(2), e.RetryCount)
			assert.Equal(t, "broker down", e.ErrorMessage)
			require.NotNil(t, e.ProcessedAt)
		}
	}
	assert.Equal(t, 1, logs.FilterMessage("outbox event parked after retries").Len())
}

func TestRelay_BatchSize(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	store := repo.NewMemoryLog()
	seed(t, store, clk.Now())
	pub := &scriptedPublisher{}

	r := New(store, pub, Config{BatchSize: 2}, clk, zap.NewNop(), nil)
	n, err := r.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"e3"}, statusOf(t, store, m_outbox.StatusPending))
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	store := repo.NewMemoryLog()
	r := New(store, &scriptedPublisher{}, Config{PollInterval: time.Millisecond}, clock.NewRealClock(), zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestStreamValues(t *testing.T) {
	at := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	v := streamValues(&outbox.Record{EventID: "e1", EventType: "quote.converted", AggregateID: "q-1", Payload: `{"total":"450"}`, CreatedAt: at})
	assert.Equal(t, "quote.converted", v["event_type"])
	assert.Equal(t, `{"total":"450"}`, v["payload"])
	assert.Equal(t, "2026-05-04T09:00:00Z", v["created_at"])
}

func TestStreamPublisher(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	stream := "rawsy.test." + time.Now().Format("150405.000000")
	t.Cleanup(func() { client.Del(ctx, stream) })

	pub := NewStreamPublisher(client, stream, 100)
	require.NoError(t, pub.Publish(ctx, &outbox.Record{EventID: "e1", EventType: "quote.converted", AggregateID: "q-1", Payload: "{}"}))

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].Values["event_id"])
}
