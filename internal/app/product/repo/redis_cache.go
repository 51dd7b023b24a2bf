package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/product/contracts"
)

const defaultProductTTL = 5 * time.Minute

// RedisCache caches single-product reads as JSON documents.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCache wraps an existing client. The caller owns the client.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultProductTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, log: log.Named("product.cache")}
}

func productKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

func (c *RedisCache) Get(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	key := productKey(productID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var dto contracts.ProductDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		// Drop the corrupted entry so the next read repopulates it.
		_ = c.client.Del(ctx, key).Err()
		return nil, fmt.Errorf("failed to unmarshal cached product: %w", err)
	}
	return &dto, nil
}

func (c *RedisCache) Set(ctx context.Context, dto *contracts.ProductDTO) error {
	if dto == nil {
		return nil
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	if err := c.client.Set(ctx, productKey(dto.ProductID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product: %w", err)
	}
	c.log.Debug("product cached", zap.String("product_id", dto.ProductID))
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, productID string) error {
	if err := c.client.Del(ctx, productKey(productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached product: %w", err)
	}
	return nil
}
