package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-inventory/internal/application/inventory"
)

var _ inventory.SummaryCache = (*SummaryCache)(nil)

const summaryKey = "inventory:summary"

// SummaryCache resumen de inventario serializado en JSON bajo una sola clave.
type SummaryCache struct {
	client *goredis.Client
	key    string
}

// NewSummaryCache construye la caché; prefix separa instalaciones que comparten Redis.
func NewSummaryCache(client *goredis.Client, prefix string) *SummaryCache {
	key := summaryKey
	if prefix != "" {
		key = prefix + ":" + summaryKey
	}
	return &SummaryCache{client: client, key: key}
}

func (c *SummaryCache) Get(ctx context.Context) (*inventory.InventorySummary, bool, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var s inventory.InventorySummary
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, summary *inventory.InventorySummary, ttl time.Duration) error {
	if summary == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, payload, ttl).Err()
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
