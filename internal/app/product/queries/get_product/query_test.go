package get_product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/domain"
)

type stubReadModel struct {
	dto   *contracts.ProductDTO
	err   error
	calls int
}

func (s *stubReadModel) GetProductByID(context.Context, string) (*contracts.ProductDTO, error) {
	s.calls++
	return s.dto, s.err
}

func (s *stubReadModel) ListProducts(context.Context, *contracts.ListFilter) (*contracts.ListResult, error) {
	return nil, errors.New("not used")
}

type mapCache struct {
	items  map[string]*contracts.ProductDTO
	getErr error
}

func (c *mapCache) Get(_ context.Context, id string) (*contracts.ProductDTO, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.items[id], nil
}

func (c *mapCache) Set(_ context.Context, dto *contracts.ProductDTO) error {
	c.items[dto.ProductID] = dto
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id string) error {
	delete(c.items, id)
	return nil
}

func TestExecute_ReadThrough(t *testing.T) {
	rm := &stubReadModel{dto: &contracts.ProductDTO{ProductID: "p-1", Name: "Cement"}}
	cache := &mapCache{items: map[string]*contracts.ProductDTO{}}
	q := NewQuery(rm, cache, nil)

	for i := 0; i < 2; i++ {
		dto, err := q.Execute(context.Background(), &Request{ProductID: "p-1"})
		require.NoError(t, err)
		assert.Equal(t, "Cement", dto.Name)
	}
	assert.Equal(t, 1, rm.calls)
}

func TestExecute_CacheFailureFallsBack(t *testing.T) {
	rm := &stubReadModel{dto: &contracts.ProductDTO{ProductID: "p-1"}}
	cache := &mapCache{items: map[string]*contracts.ProductDTO{}, getErr: errors.New("redis down")}

	dto, err := NewQuery(rm, cache, nil).Execute(context.Background(), &Request{ProductID: "p-1"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", dto.ProductID)
}

func TestExecute_Errors(t *testing.T) {
	q := NewQuery(&stubReadModel{err: domain.ErrProductNotFound}, nil, nil)
	_, err := q.Execute(context.Background(), &Request{ProductID: "x"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	q = NewQuery(&stubReadModel{err: errors.New("spanner: deadline")}, nil, nil)
	_, err = q.Execute(context.Background(), &Request{ProductID: "x"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrProductNotFound)
}
