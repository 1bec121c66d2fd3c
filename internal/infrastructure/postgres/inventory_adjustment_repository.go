package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

var _ repository.InventoryAdjustmentRepository = (*InventoryAdjustmentRepo)(nil)

// InventoryAdjustmentRepo diario de ajustes sobre PostgreSQL (usable con pool o tx).
type InventoryAdjustmentRepo struct {
	q Querier
}

// NewInventoryAdjustmentRepository construye el adaptador del diario. Pasar pool o tx (Querier).
func NewInventoryAdjustmentRepository(q Querier) *InventoryAdjustmentRepo {
	return &InventoryAdjustmentRepo{q: q}
}

const adjustmentColumns = `id, journal_number, product_id, user_id, type, quantity_before, quantity_change,
	quantity_after, reason, notes, created_at`

func scanAdjustment(row pgx.Row) (*entity.InventoryAdjustment, error) {
	var a entity.InventoryAdjustment
	var typ string
	if err := row.Scan(&a.ID, &a.JournalNumber, &a.ProductID, &a.UserID, &typ, &a.QuantityBefore,
		&a.QuantityChange, &a.QuantityAfter, &a.Reason, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Type = entity.MovementType(typ)
	return &a, nil
}

// Create inserta el asiento. Un número de diario repetido (índice único) se devuelve como domain.ErrConflict.
func (r *InventoryAdjustmentRepo) Create(ctx context.Context, a *entity.InventoryAdjustment) error {
	query := `
		INSERT INTO inventory_adjustments (journal_number, product_id, user_id, type, quantity_before,
			quantity_change, quantity_after, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.JournalNumber, a.ProductID, a.UserID, string(a.Type), a.QuantityBefore,
		a.QuantityChange, a.QuantityAfter, a.Reason, a.Notes, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert inventory adjustment: %w", domain.ErrConflict)
		}
		return wrapErr("insert inventory adjustment", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *InventoryAdjustmentRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryAdjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM inventory_adjustments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory adjustment: %w", err)
	}
	return a, nil
}

// NextJournalSequence incrementa el contador del día. La fila de journal_sequences queda bloqueada
// hasta el fin de la tx, así dos ajustes del mismo día no pueden obtener la misma secuencia. El primer
// uso del día parte del mayor número ya guardado (filas insertadas antes de existir el contador).
func (r *InventoryAdjustmentRepo) NextJournalSequence(ctx context.Context, day time.Time) (int, error) {
	prefix := inventory.JournalDayPrefix(day)
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	query := `
		INSERT INTO journal_sequences (day, last_seq)
		VALUES ($1, COALESCE((
			SELECT MAX(SUBSTRING(journal_number FROM 12 FOR 4)::int)
			FROM inventory_adjustments
			WHERE journal_number LIKE $2 || '%'
		), 0) + 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = journal_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.q.QueryRow(ctx, query, date, prefix).Scan(&seq); err != nil {
		return 0, wrapErr("next journal sequence", err)
	}
	return seq, nil
}

// List asientos filtrados, del más reciente al más antiguo.
func (r *InventoryAdjustmentRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.InventoryAdjustment, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.WithJournalOnly {
		where = append(where, "journal_number IS NOT NULL")
	}
	if f.ProductID != "" {
		where = append(where, "product_id = "+arg(f.ProductID))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(string(f.Type)))
	}
	if f.From != nil {
		where = append(where, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= "+arg(*f.To))
	}
	query := `SELECT ` + adjustmentColumns + ` FROM inventory_adjustments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory adjustments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryAdjustment, 0)
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
