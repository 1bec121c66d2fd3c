package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo snapshot de stock sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador del snapshot. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, product_id, barcode, quantity, created_at, updated_at`

func (r *InventoryRepo) get(ctx context.Context, query, productID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&inv.ID, &inv.ProductID, &inv.Barcode, &inv.Quantity, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// GetByProduct obtiene el snapshot sin bloquear.
func (r *InventoryRepo) GetByProduct(ctx context.Context, productID string) (*entity.Inventory, error) {
	inv, err := r.get(ctx, `SELECT `+inventoryColumns+` FROM inventories WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetForUpdate obtiene el snapshot y bloquea la fila para update (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error) {
	inv, err := r.get(ctx, `SELECT `+inventoryColumns+` FROM inventories WHERE product_id = $1 FOR UPDATE`, productID)
	if err != nil {
		return nil, wrapErr("get inventory for update", err)
	}
	return inv, nil
}

// Insert crea el snapshot; si otro escritor lo creó primero no hace nada (el llamador vuelve a leer con FOR UPDATE).
func (r *InventoryRepo) Insert(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventories (product_id, barcode, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, inv.ProductID, inv.Barcode, inv.Quantity, inv.CreatedAt, inv.UpdatedAt); err != nil {
		return wrapErr("insert inventory", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad del snapshot.
func (r *InventoryRepo) UpdateQuantity(ctx context.Context, productID string, quantity int64) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventories SET quantity = $2, updated_at = now() WHERE product_id = $1`,
		productID, quantity,
	)
	if err != nil {
		return wrapErr("update inventory quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("snapshot de %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}

// List todos los snapshots.
func (r *InventoryRepo) List(ctx context.Context) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+inventoryColumns+` FROM inventories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.ProductID, &inv.Barcode, &inv.Quantity, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
