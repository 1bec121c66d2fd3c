package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain"
	invredis "github.com/jhoicas/pos-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/pos-inventory/pkg/config"
)

func newServer(t *testing.T) (*miniredis.Miniredis, config.RedisConfig) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, config.RedisConfig{Addr: mr.Addr()}
}

func TestSummaryCache_SetGetInvalidate(t *testing.T) {
	mr, cfg := newServer(t)
	ctx := context.Background()
	client, err := invredis.NewClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()
	cache := invredis.NewSummaryCache(client, "test")

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "sin valor guardado")

	in := &inventory.InventorySummary{
		TotalProducts:     3,
		TotalStockValue:   decimal.RequireFromString("44000.50"),
		TotalSellValue:    decimal.NewFromInt(66000),
		LowStockCount:     1,
		OutOfStockCount:   1,
		LowStockThreshold: 10,
	}
	require.NoError(t, cache.Set(ctx, in, time.Minute))

	out, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, out.TotalProducts)
	assert.True(t, in.TotalStockValue.Equal(out.TotalStockValue))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expirado por TTL")

	require.NoError(t, cache.Set(ctx, in, time.Minute))
	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocker_Exclusivo(t *testing.T) {
	_, cfg := newServer(t)
	ctx := context.Background()
	client, err := invredis.NewClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()
	locker := invredis.NewLocker(client)

	release, err := locker.Obtain(ctx, "inventory:sync", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "inventory:sync", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)

	require.NoError(t, release(ctx))
	release, err = locker.Obtain(ctx, "inventory:sync", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, release(ctx))
}

func TestNewClient_SinServidor(t *testing.T) {
	mr, cfg := newServer(t)
	mr.Close()
	_, err := invredis.NewClient(context.Background(), cfg)
	assert.Error(t, err)
}
