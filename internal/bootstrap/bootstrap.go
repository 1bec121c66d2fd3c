// Package bootstrap arma el servicio de inventario a partir de la configuración;
// lo comparten la API y el CLI de reparación.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	appinventory "github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/pos-inventory/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/pos-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/pos-inventory/pkg/config"
	"github.com/jhoicas/pos-inventory/pkg/logger"
)

// Runtime servicio listo para usar más la función que libera sus recursos.
type Runtime struct {
	Service *appinventory.ReconciliationService
	Close   func()
}

// Build abre el almacenamiento (postgres o memoria), aplica migraciones si corresponde
// y conecta Redis cuando REDIS_ADDR está definido.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		txRunner appinventory.TxRunner
		reader   appinventory.Repos
	)
	switch cfg.Inventory.Store {
	case config.StoreMemory:
		store := memory.New()
		txRunner, reader = store, store.Repos()
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		closers = append(closers, pool.Close)
		if cfg.Inventory.RunMigrations {
			if err := postgres.Migrate(pool, log.Component("migrate")); err != nil {
				closeAll()
				return nil, err
			}
		}
		txRunner, reader = postgres.NewTxRunner(pool), postgres.Repos(pool)
	}

	var (
		cache  appinventory.SummaryCache
		locker appinventory.Locker
	)
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
				log.Warn().Err(err).Msg("cerrar redis")
			}
		})
		cache = infraredis.NewSummaryCache(client, cfg.App.Name)
		locker = infraredis.NewLocker(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis conectado: caché de resumen y bloqueo distribuido")
	}

	svc := appinventory.NewReconciliationService(txRunner, reader, cache, locker, log.Zerolog(), appinventory.Options{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		MaxRetries:        cfg.Inventory.MaxRetries,
		SummaryTTL:        cfg.Redis.SummaryTTL,
		Location:          loc,
	})
	return &Runtime{Service: svc, Close: closeAll}, nil
}
