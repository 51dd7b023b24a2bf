package fanout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/dispatcher"
	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/app/notification/repo"
	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
)

type product struct{ id, name string }

func (p product) ID() string   { return p.id }
func (p product) Name() string { return p.name }

type recordingPush struct {
	mu    sync.Mutex
	calls [][]string
	msgs  []contracts.PushMessage
	err   error
}

func (r *recordingPush) SendMulticast(_ context.Context, tokens []string, msg contracts.PushMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, tokens)
	r.msgs = append(r.msgs, msg)
	return r.err
}

type failingRepo struct {
	*repo.MemoryNotificationRepo
	failFor string
}

func (f *failingRepo) Save(ctx context.Context, n *domain.Notification) error {
	if n.UserID() == f.failFor {
		return errors.New("write failed")
	}
	return f.MemoryNotificationRepo.Save(ctx, n)
}

func priceDrop(oldPrice, newPrice int64) productdomain.ChangeEvent {
	o, n := productdomain.MoneyFromInt(oldPrice), productdomain.MoneyFromInt(newPrice)
	return productdomain.ChangeEvent{Kind: productdomain.ChangePriceDrop, OldPrice: &o, NewPrice: &n}
}

func setup(t *testing.T, store contracts.NotificationRepository, push contracts.PushTransport) (*Fanout, *repo.MemoryDirectory, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	dir := repo.NewMemoryDirectory()
	dir.PutUser(domain.Recipient{ID: "w1", DeviceTokens: []string{"tok-a", "tok-b"}})
	dir.PutUser(domain.Recipient{ID: "w2", DeviceTokens: []string{"tok-c", "tok-a"}})
	dir.PutUser(domain.Recipient{ID: "w3"})
	for _, id := range []string{"w1", "w2", "w3"} {
		dir.AddToWishlist(id, "p-1")
	}

	d := dispatcher.New(store, push, clock.NewMockClock(time.Now()), log, nil)
	return New(dir, d, log), dir, logs
}

func TestNotifyWatchers_PriceDrop(t *testing.T) {
	store := repo.NewMemoryNotificationRepo()
	push := &recordingPush{}
	f, _, _ := setup(t, store, push)

	err := f.NotifyWatchers(context.Background(), product{"p-1", "Portland Cement"}, priceDrop(100, 80))
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 3)
	users := make([]string, 0, 3)
	for _, n := range all {
		users = append(users, n.UserID())
		assert.Equal(t, domain.TypePriceDrop, n.Type())
		assert.Equal(t, "Price drop: Portland Cement", n.Title())
		assert.Equal(t, "Portland Cement price dropped from 100 to 80", n.Body())
	}
	assert.ElementsMatch(t, []string{"w1", "w2", "w3"}, users)

	require.Len(t, push.calls, 1)
	assert.ElementsMatch(t, []string{"tok-a", "tok-b", "tok-c"}, push.calls[0])
	assert.Equal(t, map[string]string{
		"productId": "p-1",
		"type":      "price_drop",
		"oldPrice":  "100",
		"newPrice":  "80",
	}, push.msgs[0].Data)
}

func TestNotifyWatchers_BackInStock(t *testing.T) {
	store := repo.NewMemoryNotificationRepo()
	push := &recordingPush{}
	f, _, _ := setup(t, store, push)

	err := f.NotifyWatchers(context.Background(), product{"p-1", "Rebar"}, productdomain.ChangeEvent{Kind: productdomain.ChangeBackInStock})
	require.NoError(t, err)

	require.Len(t, store.All(), 3)
	assert.Equal(t, "Rebar is back in stock", store.All()[0].Body())
	require.Len(t, push.msgs, 1)
	assert.Equal(t, "Back in stock: Rebar", push.msgs[0].Title)
}

func TestNotifyWatchers_NoWatchers(t *testing.T) {
	store := repo.NewMemoryNotificationRepo()
	push := &recordingPush{}
	f, _, _ := setup(t, store, push)

	err := f.NotifyWatchers(context.Background(), product{"p-2", "Sand"}, priceDrop(10, 9))
	require.NoError(t, err)
	assert.Empty(t, store.All())
	assert.Empty(t, push.calls)
}

func TestNotifyWatchers_WriteFailureDoesNotBlockOthers(t *testing.T) {
	store := &failingRepo{MemoryNotificationRepo: repo.NewMemoryNotificationRepo(), failFor: "w2"}
	push := &recordingPush{err: errors.New("fcm unavailable")}
	f, _, logs := setup(t, store, push)

	err := f.NotifyWatchers(context.Background(), product{"p-1", "Cement"}, priceDrop(100, 80))
	require.NoError(t, err)

	assert.Len(t, store.All(), 2)
	assert.Len(t, push.calls, 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("push multicast failed").Len())
}

func TestBuildMessage_UnknownKind(t *testing.T) {
	_, err := BuildMessage(product{"p", "x"}, productdomain.ChangeEvent{Kind: "discount_started"})
	assert.Error(t, err)
}
