package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

// Cache guarda o último resultado conferido para aliviar o Postgres
// nas leituras da API.
type Cache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *Cache { return &Cache{R: r, TTL: ttl} }

const latestKey = "lotofacil:result:latest"

func (c *Cache) GetLatest(ctx context.Context) (lottery.DrawResult, bool, error) {
	b, err := c.R.Get(ctx, latestKey).Bytes()
	if err == redis.Nil {
		return lottery.DrawResult{}, false, nil
	}
	if err != nil {
		return lottery.DrawResult{}, false, err
	}
	var r lottery.DrawResult
	if err := json.Unmarshal(b, &r); err != nil {
		return lottery.DrawResult{}, false, err
	}
	return r, true, nil
}

func (c *Cache) SetLatest(ctx context.Context, r lottery.DrawResult) error {
	b, _ := json.Marshal(r)
	return c.R.Set(ctx, latestKey, b, c.TTL).Err()
}
