package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_user"
	"github.com/light-bringer/rawsy-service/internal/models/m_wishlist"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
)

// NewProduct builds an unsaved product owned by supplierID.
func NewProduct(t *testing.T, supplierID string, price int64, stock int64, negotiable bool, now time.Time) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.NewProductParams{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		Name:       "Portland Cement",
		Category:   "construction",
		Price:      domain.MoneyFromInt(price),
		Unit:       "bag",
		Stock:      stock,
		Negotiable: negotiable,
	}, now)
	require.NoError(t, err)
	return p
}

// CreateUser writes a users row the way the identity service would.
func CreateUser(t *testing.T, client *spanner.Client, userID string, role actor.Role, tokens ...string) {
	t.Helper()
	mut := m_user.NewModel().UpsertMut(&m_user.Data{
		UserID:       userID,
		Name:         userID,
		Role:         string(role),
		DeviceTokens: tokens,
		CreatedAt:    time.Now().UTC(),
	})
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to create user")
}

// AddToWishlist saves productID to the user's wishlist.
func AddToWishlist(t *testing.T, client *spanner.Client, userID, productID string) {
	t.Helper()
	mut := m_wishlist.NewModel().UpsertMut(&m_wishlist.Data{UserID: userID, ProductID: productID, AddedAt: time.Now().UTC()})
	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to add wishlist item")
}
