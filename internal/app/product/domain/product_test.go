package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewProductParams {
	return NewProductParams{
		ID:         "p-1",
		SupplierID: "s-1",
		Name:       "Portland cement",
		Category:   "construction",
		Price:      MoneyFromInt(100),
		Unit:       "ton",
		Stock:      5,
		Negotiable: true,
	}
}

func TestNewProduct(t *testing.T) {
	now := time.Now()

	t.Run("valid product creation", func(t *testing.T) {
		p, err := NewProduct(validParams(), now)
		require.NoError(t, err)
		assert.Equal(t, "p-1", p.ID())
		assert.Equal(t, "s-1", p.SupplierID())
		assert.Equal(t, int64(1), p.Version())
		require.Len(t, p.DomainEvents(), 1)
		assert.Equal(t, "product.created", p.DomainEvents()[0].EventType())
	})

	tests := []struct {
		name   string
		mutate func(*NewProductParams)
		want   error
	}{
		{"empty name", func(p *NewProductParams) { p.Name = " " }, ErrEmptyName},
		{"empty category", func(p *NewProductParams) { p.Category = "" }, ErrInvalidCategory},
		{"zero price", func(p *NewProductParams) { p.Price = MoneyFromInt(0) }, ErrInvalidPrice},
		{"negative price", func(p *NewProductParams) { p.Price = MoneyFromInt(-3) }, ErrInvalidPrice},
		{"empty unit", func(p *NewProductParams) { p.Unit = "" }, ErrInvalidUnit},
		{"negative stock", func(p *NewProductParams) { p.Stock = -1 }, ErrNegativeStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewProduct(params, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestProduct_Apply(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Minute)

	t.Run("tracks only changed fields and emits one event", func(t *testing.T) {
		p, _ := NewProduct(validParams(), now)
		p.ClearEvents()

		price := MoneyFromInt(80)
		sameName := "Portland cement"
		stock := int64(9)
		err := p.Apply(Patch{Name: &sameName, Price: &price, Stock: &stock}, later)
		require.NoError(t, err)

		assert.Equal(t, []string{FieldPrice, FieldStock}, p.Changes().DirtyFields())
		assert.Equal(t, later, p.UpdatedAt())
		require.Len(t, p.DomainEvents(), 1)
		ev := p.DomainEvents()[0].(*ProductUpdatedEvent)
		assert.Equal(t, []string{FieldPrice, FieldStock}, ev.ChangedFields)
	})

	t.Run("no-op patch records nothing", func(t *testing.T) {
		p, _ := NewProduct(validParams(), now)
		p.ClearEvents()

		sameStock := int64(5)
		require.NoError(t, p.Apply(Patch{Stock: &sameStock}, later))
		assert.False(t, p.Changes().HasChanges())
		assert.Empty(t, p.DomainEvents())
		assert.Equal(t, now, p.UpdatedAt())
	})

	t.Run("unchanged discount records nothing", func(t *testing.T) {
		exp := now.Add(24 * time.Hour)
		params := validParams()
		params.Discount, _ = NewDiscount(decimal.NewFromInt(10), true, &exp)
		p, err := NewProduct(params, now)
		require.NoError(t, err)
		p.ClearEvents()

		same, _ := NewDiscount(decimal.RequireFromString("10.0"), true, &exp)
		require.NoError(t, p.Apply(Patch{Discount: same}, later))
		assert.False(t, p.Changes().HasChanges())
		assert.Empty(t, p.DomainEvents())

		off, _ := NewDiscount(decimal.NewFromInt(10), false, &exp)
		require.NoError(t, p.Apply(Patch{Discount: off}, later))
		assert.Equal(t, []string{FieldDiscount}, p.Changes().DirtyFields())
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		p, _ := NewProduct(validParams(), now)
		neg := int64(-2)
		assert.ErrorIs(t, p.Apply(Patch{Stock: &neg}, later), ErrNegativeStock)
	})

	t.Run("mark persisted bumps version", func(t *testing.T) {
		p, _ := NewProduct(validParams(), now)
		unit := "kg"
		require.NoError(t, p.Apply(Patch{Unit: &unit}, later))
		p.MarkPersisted()
		assert.Equal(t, int64(2), p.Version())
		assert.False(t, p.Changes().HasChanges())
	})
}

func TestProduct_FinalPrice(t *testing.T) {
	now := time.Now()
	params := validParams()
	params.Discount, _ = NewDiscount(decimal.NewFromInt(10), true, nil)
	p, _ := NewProduct(params, now)

	assert.Equal(t, "90", p.FinalPrice(now).String())
	assert.Equal(t, "100", p.Price().String())
}

func TestProduct_Snapshot(t *testing.T) {
	p, _ := NewProduct(validParams(), time.Now())
	snap := p.Snapshot()

	price := MoneyFromInt(1)
	require.NoError(t, p.Apply(Patch{Price: &price}, time.Now()))

	assert.Equal(t, "100", snap.Price.String())
	assert.Equal(t, int64(5), *snap.Stock)
}
