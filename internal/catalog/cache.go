package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mobilemart/storefront/internal/redisx"
)

type loader interface {
	GetByID(ctx context.Context, id string) (Product, error)
}

// Cache is a read-through product cache: Redis first, then the store,
// with singleflight collapsing concurrent misses for the same product.
type Cache struct {
	Redis *redis.Client
	Store loader

	group singleflight.Group
}

func (c *Cache) Get(ctx context.Context, id string) (Product, error) {
	key := fmt.Sprintf(redisx.KeyProduct, id)
	if s, err := c.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		var p Product
		if err := json.Unmarshal([]byte(s), &p); err == nil {
			return p, nil
		}
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		p, err := c.Store.GetByID(ctx, id)
		if err != nil {
			return Product{}, err
		}
		if b, err := json.Marshal(p); err == nil {
			_ = c.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err()
		}
		return p, nil
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

// Invalidate drops the cached copy after a catalog mutation. Stock
// decrements by order placement also go through here.
func (c *Cache) Invalidate(ctx context.Context, ids ...string) {
	for _, id := range ids {
		_ = c.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Err()
	}
}
