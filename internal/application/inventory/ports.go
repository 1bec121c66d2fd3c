package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

// Repos repositorios que participan en una operación de inventario.
// Dentro de TxRunner.Run todos están atados a la misma transacción.
type Repos struct {
	Movements   repository.StockMovementRepository
	Inventories repository.InventoryRepository
	Adjustments repository.InventoryAdjustmentRepository
	Products    repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn retorna nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// SummaryCache caché del resumen de inventario. Tolera datos algo desactualizados; se invalida tras cada commit.
type SummaryCache interface {
	Get(ctx context.Context) (*InventorySummary, bool, error)
	Set(ctx context.Context, summary *InventorySummary, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Locker bloqueo exclusivo entre instancias para las operaciones de reparación.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// NoopSummaryCache desactiva la caché.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context) (*InventorySummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ *InventorySummary, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context) error {
	return nil
}
