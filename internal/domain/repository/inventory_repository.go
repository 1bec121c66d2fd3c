package repository

import (
	"context"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// InventoryRepository puerto del snapshot de stock por producto.
// GetByProduct/GetForUpdate devuelven (nil, nil) si el producto aún no tiene snapshot.
type InventoryRepository interface {
	GetByProduct(ctx context.Context, productID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error)
	// Insert crea el snapshot si no existe; no falla si otro escritor lo creó primero.
	Insert(ctx context.Context, inv *entity.Inventory) error
	UpdateQuantity(ctx context.Context, productID string, quantity int64) error
	List(ctx context.Context) ([]*entity.Inventory, error)
}
