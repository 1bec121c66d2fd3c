package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, user_id, movement_type, quantity, unit_price, total_price,
	quantity_before, quantity_after, reference_type, reference_id, notes, created_at`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var movType string
	if err := row.Scan(&m.ID, &m.ProductID, &m.UserID, &movType, &m.Quantity, &m.UnitPrice, &m.TotalPrice,
		&m.QuantityBefore, &m.QuantityAfter, &m.ReferenceType, &m.ReferenceID, &m.Notes, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(movType)
	return &m, nil
}

// Create persiste un movimiento y asigna ID. Los CHECK de la tabla rechazan quantity_after < 0.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, user_id, movement_type, quantity, unit_price, total_price,
			quantity_before, quantity_after, reference_type, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.UserID, string(m.Type), m.Quantity, m.UnitPrice, m.TotalPrice,
		m.QuantityBefore, m.QuantityAfter, m.ReferenceType, m.ReferenceID, m.Notes, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return wrapErr("create stock movement", err)
	}
	return nil
}

// SumQuantity stock actual del ledger.
func (r *StockMovementRepo) SumQuantity(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return 0, wrapErr("sum stock movements", err)
	}
	return sum, nil
}

// PurchaseTotals Σ total_price y Σ quantity de las filas purchase del producto.
func (r *StockMovementRepo) PurchaseTotals(ctx context.Context, productID string) (repository.PurchaseTotals, error) {
	var t repository.PurchaseTotals
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_price), 0), COALESCE(SUM(quantity), 0)::bigint
		FROM stock_movements
		WHERE product_id = $1 AND movement_type = 'purchase'`, productID,
	).Scan(&t.TotalPrice, &t.Quantity)
	if err != nil {
		return repository.PurchaseTotals{}, fmt.Errorf("purchase totals: %w", err)
	}
	return t, nil
}

// PurchaseTotalsByProduct mismos agregados para todos los productos en una sola consulta.
func (r *StockMovementRepo) PurchaseTotalsByProduct(ctx context.Context) (map[string]repository.PurchaseTotals, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, SUM(total_price), SUM(quantity)::bigint
		FROM stock_movements
		WHERE movement_type = 'purchase'
		GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("purchase totals by product: %w", err)
	}
	defer rows.Close()
	out := make(map[string]repository.PurchaseTotals)
	for rows.Next() {
		var (
			productID string
			total     decimal.Decimal
			qty       int64
		)
		if err := rows.Scan(&productID, &total, &qty); err != nil {
			return nil, fmt.Errorf("scan purchase totals: %w", err)
		}
		out[productID] = repository.PurchaseTotals{TotalPrice: total, Quantity: qty}
	}
	return out, rows.Err()
}

// ListByProduct todos los movimientos del producto en orden de ocurrencia (id ascendente).
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	return r.List(ctx, repository.MovementFilter{ProductID: productID, Ascending: true})
}

// List movimientos filtrados. Sin Ascending el orden es del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ProductID != "" {
		where = append(where, "product_id = "+arg(f.ProductID))
	}
	if types := f.ResolvedTypes(); types != nil {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		where = append(where, "movement_type = ANY("+arg(names)+")")
	}
	if f.From != nil {
		where = append(where, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= "+arg(*f.To))
	}
	if f.ReferenceType != "" {
		where = append(where, "reference_type = "+arg(f.ReferenceType))
	}
	if f.ReferenceID != "" {
		where = append(where, "reference_id = "+arg(f.ReferenceID))
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Ascending {
		query += " ORDER BY id ASC"
	} else {
		query += " ORDER BY id DESC"
	}
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
