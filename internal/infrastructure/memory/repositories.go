package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

var (
	_ repository.ProductRepository             = (*ProductRepository)(nil)
	_ repository.InventoryRepository           = (*InventoryRepository)(nil)
	_ repository.StockMovementRepository       = (*StockMovementRepository)(nil)
	_ repository.InventoryAdjustmentRepository = (*InventoryAdjustmentRepository)(nil)
)

// ProductRepository productos en memoria.
type ProductRepository struct{ db *db }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.db.with(func(st *state) error {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("producto %s: %w", p.ID, domain.ErrDuplicate)
		}
		if p.Barcode != "" {
			if _, ok := st.productsByCode[p.Barcode]; ok {
				return fmt.Errorf("código de barras %s: %w", p.Barcode, domain.ErrDuplicate)
			}
			st.productsByCode[p.Barcode] = p.ID
		}
		now := r.db.store.now()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var id string
	_ = r.db.with(func(st *state) error {
		id = st.productsByCode[barcode]
		return nil
	})
	if id == "" {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.with(func(st *state) error {
		out = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *ProductRepository) UpdateStock(_ context.Context, productID string, stock int64) error {
	return r.db.with(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		p.Stock = stock
		p.UpdatedAt = r.db.store.now()
		st.products[productID] = p
		return nil
	})
}

// InventoryRepository snapshots en memoria. GetForUpdate no necesita bloquear: la tx ya tiene el mutex.
type InventoryRepository struct{ db *db }

func (r *InventoryRepository) GetByProduct(_ context.Context, productID string) (*entity.Inventory, error) {
	var out *entity.Inventory
	err := r.db.with(func(st *state) error {
		if inv, ok := st.inventories[productID]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepository) GetForUpdate(ctx context.Context, productID string) (*entity.Inventory, error) {
	return r.GetByProduct(ctx, productID)
}

func (r *InventoryRepository) Insert(_ context.Context, inv *entity.Inventory) error {
	return r.db.with(func(st *state) error {
		if existing, ok := st.inventories[inv.ProductID]; ok {
			inv.ID = existing.ID
			return nil
		}
		st.nextInventoryID++
		inv.ID = st.nextInventoryID
		st.inventories[inv.ProductID] = *inv
		return nil
	})
}

func (r *InventoryRepository) UpdateQuantity(_ context.Context, productID string, quantity int64) error {
	return r.db.with(func(st *state) error {
		inv, ok := st.inventories[productID]
		if !ok {
			return fmt.Errorf("snapshot de %s: %w", productID, domain.ErrNotFound)
		}
		if quantity < 0 {
			return domain.InvalidInput("cantidad negativa en snapshot de %s", productID)
		}
		inv.Quantity = quantity
		inv.UpdatedAt = r.db.store.now()
		st.inventories[productID] = inv
		return nil
	})
}

func (r *InventoryRepository) List(_ context.Context) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	err := r.db.with(func(st *state) error {
		out = make([]*entity.Inventory, 0, len(st.inventories))
		for _, inv := range st.inventories {
			inv := inv
			out = append(out, &inv)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Inventory) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

// StockMovementRepository ledger en memoria (solo append).
type StockMovementRepository struct{ db *db }

func (r *StockMovementRepository) Create(_ context.Context, m *entity.StockMovement) error {
	if m.QuantityAfter != m.QuantityBefore+m.Quantity || m.QuantityAfter < 0 {
		return domain.InvalidInput("movimiento inconsistente para %s (antes %d, cambio %d, después %d)",
			m.ProductID, m.QuantityBefore, m.Quantity, m.QuantityAfter)
	}
	return r.db.with(func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return fmt.Errorf("producto %s: %w", m.ProductID, domain.ErrNotFound)
		}
		st.nextMovementID++
		m.ID = st.nextMovementID
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *StockMovementRepository) SumQuantity(_ context.Context, productID string) (int64, error) {
	var sum int64
	err := r.db.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				sum += m.Quantity
			}
		}
		return nil
	})
	return sum, err
}

func (r *StockMovementRepository) PurchaseTotals(ctx context.Context, productID string) (repository.PurchaseTotals, error) {
	all, err := r.PurchaseTotalsByProduct(ctx)
	if err != nil {
		return repository.PurchaseTotals{}, err
	}
	return all[productID], nil
}

func (r *StockMovementRepository) PurchaseTotalsByProduct(_ context.Context) (map[string]repository.PurchaseTotals, error) {
	out := make(map[string]repository.PurchaseTotals)
	err := r.db.with(func(st *state) error {
		for _, m := range st.movements {
			if m.Type != entity.MovementTypePurchase {
				continue
			}
			t, ok := out[m.ProductID]
			if !ok {
				t.TotalPrice = decimal.Zero
			}
			t.TotalPrice = t.TotalPrice.Add(m.TotalPrice)
			t.Quantity += m.Quantity
			out[m.ProductID] = t
		}
		return nil
	})
	return out, err
}

func (r *StockMovementRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	return r.List(ctx, repository.MovementFilter{ProductID: productID, Ascending: true})
}

func (r *StockMovementRepository) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	types := f.ResolvedTypes()
	var out []*entity.StockMovement
	err := r.db.with(func(st *state) error {
		out = make([]*entity.StockMovement, 0)
		for _, m := range st.movements {
			m := m
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if types != nil && !slices.Contains(types, m.Type) {
				continue
			}
			if !inRange(m.CreatedAt, f.From, f.To) {
				continue
			}
			if f.ReferenceType != "" && (m.ReferenceType == nil || *m.ReferenceType != f.ReferenceType) {
				continue
			}
			if f.ReferenceID != "" && (m.ReferenceID == nil || *m.ReferenceID != f.ReferenceID) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	if !f.Ascending {
		slices.Reverse(out)
	}
	return page(out, f.Offset, f.Limit), err
}

// InventoryAdjustmentRepository diario de ajustes en memoria.
type InventoryAdjustmentRepository struct{ db *db }

func (r *InventoryAdjustmentRepository) Create(_ context.Context, adj *entity.InventoryAdjustment) error {
	return r.db.with(func(st *state) error {
		if adj.JournalNumber != nil {
			for _, a := range st.adjustments {
				if a.JournalNumber != nil && *a.JournalNumber == *adj.JournalNumber {
					return fmt.Errorf("número de diario %s: %w", *adj.JournalNumber, domain.ErrConflict)
				}
			}
		}
		st.nextAdjustmentID++
		adj.ID = st.nextAdjustmentID
		st.adjustments = append(st.adjustments, *adj)
		return nil
	})
}

func (r *InventoryAdjustmentRepository) GetByID(_ context.Context, id int64) (*entity.InventoryAdjustment, error) {
	var out *entity.InventoryAdjustment
	err := r.db.with(func(st *state) error {
		for _, a := range st.adjustments {
			if a.ID == id {
				out = &a
				return nil
			}
		}
		return nil
	})
	return out, err
}

// NextJournalSequence la primera llamada del día parte del mayor número ya guardado para ese día.
func (r *InventoryAdjustmentRepository) NextJournalSequence(_ context.Context, day time.Time) (int, error) {
	key := inventory.JournalDay(day)
	var seq int
	err := r.db.with(func(st *state) error {
		last, ok := st.journalSeq[key]
		if !ok {
			for _, a := range st.adjustments {
				if a.JournalNumber == nil {
					continue
				}
				if d, n, ok := inventory.ParseJournalNumber(*a.JournalNumber); ok && d == key && n > last {
					last = n
				}
			}
		}
		seq = last + 1
		st.journalSeq[key] = seq
		return nil
	})
	return seq, err
}

func (r *InventoryAdjustmentRepository) List(_ context.Context, f repository.AdjustmentFilter) ([]*entity.InventoryAdjustment, error) {
	var out []*entity.InventoryAdjustment
	err := r.db.with(func(st *state) error {
		out = make([]*entity.InventoryAdjustment, 0)
		for i := len(st.adjustments) - 1; i >= 0; i-- {
			a := st.adjustments[i]
			if f.WithJournalOnly && a.JournalNumber == nil {
				continue
			}
			if f.ProductID != "" && a.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && a.Type != f.Type {
				continue
			}
			if !inRange(a.CreatedAt, f.From, f.To) {
				continue
			}
			out = append(out, &a)
		}
		return nil
	})
	return page(out, f.Offset, f.Limit), err
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
