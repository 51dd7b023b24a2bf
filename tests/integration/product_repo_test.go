//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/app/product/repo"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/models/m_product"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/committer"
	"github.com/light-bringer/rawsy-service/tests/testutil"
)

func TestProductRepo_InsertAndGet(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	products := repo.NewProductRepo(client, committer.NewCommitter(client), clk)

	p := testutil.NewProduct(t, "sup-1", 50, 10, true, clk.Now())
	require.NoError(t, products.Insert(ctx, p))

	testutil.AssertRowCount(t, client, m_product.TableName, 1)
	testutil.AssertRowCount(t, client, m_outbox.TableName, 1)

	got, err := products.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Portland Cement", got.Name())
	assert.True(t, got.Price().Equal(domain.MoneyFromInt(50)))
	assert.True(t, got.Negotiable())

	_, err = products.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepo_UpdateIsVersionGuarded(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	products := repo.NewProductRepo(client, committer.NewCommitter(client), clk)

	p := testutil.NewProduct(t, "sup-1", 50, 0, false, clk.Now())
	require.NoError(t, products.Insert(ctx, p))

	first, err := products.GetByID(ctx, p.ID())
	require.NoError(t, err)
	stale, err := products.GetByID(ctx, p.ID())
	require.NoError(t, err)

	price := domain.MoneyFromInt(45)
	require.NoError(t, first.Apply(domain.Patch{Price: &price}, clk.Now()))
	require.NoError(t, products.Update(ctx, first))

	stock := int64(3)
	require.NoError(t, stale.Apply(domain.Patch{Stock: &stock}, clk.Now()))
	assert.ErrorIs(t, products.Update(ctx, stale), domain.ErrVersionConflict)

	got, err := products.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.True(t, got.Price().Equal(price))
	assert.Equal(t, int64(0), got.Stock())
	assert.Equal(t, first.Version()+1, got.Version())
}

func TestProductRepo_Delete(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	clk := clock.NewMockClock(time.Now().UTC())
	products := repo.NewProductRepo(client, committer.NewCommitter(client), clk)

	p := testutil.NewProduct(t, "sup-1", 50, 0, false, clk.Now())
	require.NoError(t, products.Insert(ctx, p))

	loaded, err := products.GetByID(ctx, p.ID())
	require.NoError(t, err)
	loaded.MarkDeleted("sup-1", clk.Now())
	require.NoError(t, products.Delete(ctx, loaded))

	testutil.AssertRowCount(t, client, m_product.TableName, 0)
	testutil.AssertRowCount(t, client, m_outbox.TableName, 2)
	assert.ErrorIs(t, products.Delete(ctx, loaded), domain.ErrProductNotFound)
}
