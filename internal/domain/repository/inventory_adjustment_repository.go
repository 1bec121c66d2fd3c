package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// AdjustmentFilter filtros del diario de ajustes. WithJournalOnly excluye filas heredadas sin número.
type AdjustmentFilter struct {
	ProductID       string
	Type            entity.MovementType
	From            *time.Time
	To              *time.Time
	WithJournalOnly bool
	Limit           int
	Offset          int
}

// InventoryAdjustmentRepository puerto del diario de ajustes manuales.
type InventoryAdjustmentRepository interface {
	// Create inserta el asiento y asigna ID. Un número de diario repetido devuelve domain.ErrConflict.
	Create(ctx context.Context, adj *entity.InventoryAdjustment) error
	GetByID(ctx context.Context, id int64) (*entity.InventoryAdjustment, error)
	// NextJournalSequence incrementa de forma atómica la secuencia del día (dentro de la transacción del insert).
	NextJournalSequence(ctx context.Context, day time.Time) (int, error)
	List(ctx context.Context, filter AdjustmentFilter) ([]*entity.InventoryAdjustment, error)
}
