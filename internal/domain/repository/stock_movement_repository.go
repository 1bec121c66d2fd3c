package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// MovementFilter filtros del ledger consumidos por reportes y listados.
// Direction se traduce a la lista fija de tipos (entity.TypesByDirection), nunca al signo guardado.
type MovementFilter struct {
	ProductID     string
	Types         []entity.MovementType
	Direction     entity.Direction
	From          *time.Time
	To            *time.Time
	ReferenceType string
	ReferenceID   string
	Ascending     bool
	Limit         int
	Offset        int
}

// ResolvedTypes combina Types y Direction. nil significa sin filtro por tipo.
func (f MovementFilter) ResolvedTypes() []entity.MovementType {
	if f.Direction == entity.DirectionNone {
		return f.Types
	}
	byDir := entity.TypesByDirection(f.Direction)
	if len(f.Types) == 0 {
		return byDir
	}
	out := make([]entity.MovementType, 0, len(f.Types))
	for _, t := range f.Types {
		if t.Direction() == f.Direction {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		// Ningún tipo pedido pertenece a la dirección: el filtro no devuelve filas.
		return []entity.MovementType{}
	}
	return out
}

// PurchaseTotals agregados de los movimientos tipo purchase de un producto.
type PurchaseTotals struct {
	TotalPrice decimal.Decimal
	Quantity   int64
}

// StockMovementRepository puerto del ledger de stock (solo inserción; nunca actualiza ni borra).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	SumQuantity(ctx context.Context, productID string) (int64, error)
	PurchaseTotals(ctx context.Context, productID string) (PurchaseTotals, error)
	PurchaseTotalsByProduct(ctx context.Context) (map[string]PurchaseTotals, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
