package cache

import (
	"context"
	"encoding/json"
	"time"

	"techzone-backend/models"

	"github.com/go-redis/redis/v8"
)

const (
	productCachePrefix = "product:detail:"
	defaultTTL         = 5 * time.Minute
)

// ProductCache caches product details in Redis. Misses and Redis errors
// are both treated as cache misses.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{redis: client, ttl: defaultTTL}
}

func (c *ProductCache) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, productCachePrefix+productID).Bytes()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (c *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	c.redis.Set(ctx, productCachePrefix+product.ID, data, c.ttl)
}

func (c *ProductCache) InvalidateProduct(ctx context.Context, productID string) {
	if c == nil || c.redis == nil {
		return
	}
	c.redis.Del(ctx, productCachePrefix+productID)
}
