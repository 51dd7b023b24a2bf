//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/app/notification/repo"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/committer"
	"github.com/light-bringer/rawsy-service/tests/testutil"
)

func TestUserDirectory(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	directory := repo.NewUserDirectory(client)

	testutil.CreateUser(t, client, "w1", actor.RoleBuyer, "tok-a")
	testutil.CreateUser(t, client, "w2", actor.RoleBuyer)
	testutil.CreateUser(t, client, "w3", actor.RoleBuyer, "tok-b")
	testutil.AddToWishlist(t, client, "w1", "p-1")
	testutil.AddToWishlist(t, client, "w2", "p-1")
	testutil.AddToWishlist(t, client, "w3", "p-2")

	watchers, err := directory.FindWishlistWatchers(ctx, "p-1")
	require.NoError(t, err)
	ids := make([]string, 0, len(watchers))
	for _, w := range watchers {
		ids = append(ids, w.ID)
	}
	assert.ElementsMatch(t, []string{"w1", "w2"}, ids)

	r, err := directory.GetRecipient(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-a"}, r.DeviceTokens)

	_, err = directory.GetRecipient(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNotificationRepo(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	notifications := repo.NewNotificationRepo(client, committer.NewCommitter(client))
	now := time.Now().UTC()

	for i, typ := range []domain.Type{domain.TypePriceDrop, domain.TypeBackInStock} {
		n, err := domain.NewNotification("n-"+string(typ), "w1", domain.Message{
			Type:  typ,
			Title: string(typ),
			Data:  map[string]string{"productId": "p-1", "type": string(typ)},
		}, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.NoError(t, notifications.Save(ctx, n))
	}

	got, err := notifications.ListByUser(ctx, "w1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TypeBackInStock, got[0].Type())
	assert.Equal(t, "p-1", got[0].Data()["productId"])
	assert.False(t, got[0].Read())

	none, err := notifications.ListByUser(ctx, "w2", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
