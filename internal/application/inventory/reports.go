package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
)

// Las lecturas corren sin bloqueos sobre los repositorios del pool; toleran datos algo desactualizados.

// CurrentStock stock del ledger para un producto.
func (s *ReconciliationService) CurrentStock(ctx context.Context, productID string) (int64, error) {
	return s.ledger.CurrentStock(ctx, s.reader, productID)
}

// AverageBuyPrice costo promedio de compra del producto.
func (s *ReconciliationService) AverageBuyPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	return s.ledger.AverageBuyPrice(ctx, s.reader, productID)
}

// StockHistory todos los movimientos del producto en orden de ocurrencia.
func (s *ReconciliationService) StockHistory(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	if _, err := s.mustProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.reader.Movements.ListByProduct(ctx, productID)
}

// ListMovements listado filtrado del ledger.
func (s *ReconciliationService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	for _, t := range filter.Types {
		if !t.Valid() {
			return nil, domain.InvalidInput("tipo de movimiento inválido: %s", t)
		}
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.InvalidInput("rango de fechas inválido")
	}
	return s.reader.Movements.List(ctx, filter)
}

// ListAdjustments listado del diario de ajustes.
func (s *ReconciliationService) ListAdjustments(ctx context.Context, filter repository.AdjustmentFilter) ([]*entity.InventoryAdjustment, error) {
	if filter.Type != "" && !filter.Type.IsAdjustment() {
		return nil, domain.InvalidInput("tipo de ajuste inválido: %s", filter.Type)
	}
	return s.reader.Adjustments.List(ctx, filter)
}

// ProductStock tarjeta de stock: compara ledger y snapshot del producto.
func (s *ReconciliationService) ProductStock(ctx context.Context, productID string) (*StockCard, error) {
	product, err := s.mustProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	ledgerQty, err := s.ledger.CurrentStock(ctx, s.reader, productID)
	if err != nil {
		return nil, err
	}
	avg, err := s.ledger.AverageBuyPrice(ctx, s.reader, productID)
	if err != nil {
		return nil, err
	}
	card := &StockCard{
		Product:         product,
		LedgerQuantity:  ledgerQty,
		AverageBuyPrice: avg,
		InSync:          true,
	}
	inv, err := s.reader.Inventories.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if inv != nil {
		q := inv.Quantity
		card.SnapshotQuantity = &q
		card.InSync = q == ledgerQty
	}
	return card, nil
}

// InventorySummary agregado de todos los productos. El valor a costo usa el snapshot por el costo
// promedio; un producto sin snapshot cuenta con su stock heredado.
func (s *ReconciliationService) InventorySummary(ctx context.Context) (*InventorySummary, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		s.log.Warn().Err(err).Msg("leer caché de resumen")
	} else if ok {
		return cached, nil
	}

	products, err := s.reader.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.reader.Inventories.List(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.reader.Movements.PurchaseTotalsByProduct(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]int64, len(snapshots))
	for _, inv := range snapshots {
		byProduct[inv.ProductID] = inv.Quantity
	}

	summary := &InventorySummary{
		TotalProducts:     len(products),
		TotalStockValue:   decimal.Zero,
		TotalSellValue:    decimal.Zero,
		LowStockThreshold: s.opts.LowStockThreshold,
		GeneratedAt:       s.opts.Now(),
	}
	for _, p := range products {
		qty, ok := byProduct[p.ID]
		if !ok {
			qty = max(p.Stock, 0)
		}
		switch {
		case qty == 0:
			summary.OutOfStockCount++
		case qty <= s.opts.LowStockThreshold:
			summary.LowStockCount++
		}
		t := totals[p.ID]
		avg := inventory.AverageFromTotals(t.TotalPrice, t.Quantity)
		q := decimal.NewFromInt(qty)
		summary.TotalStockValue = summary.TotalStockValue.Add(q.Mul(avg))
		summary.TotalSellValue = summary.TotalSellValue.Add(q.Mul(p.SellPrice))
	}
	summary.TotalStockValue = summary.TotalStockValue.Round(2)
	summary.TotalSellValue = summary.TotalSellValue.Round(2)

	if err := s.cache.Set(ctx, summary, s.opts.SummaryTTL); err != nil {
		s.log.Warn().Err(err).Msg("guardar caché de resumen")
	}
	return summary, nil
}

// GenerateJournalNumber número de diario en su propia transacción (consume la secuencia del día).
func (s *ReconciliationService) GenerateJournalNumber(ctx context.Context) (string, error) {
	var number string
	err := s.inTx(ctx, "generate journal number", func(repos Repos) error {
		n, err := s.journal.GenerateNumber(ctx, repos, s.opts.Now())
		if err != nil {
			return err
		}
		number = n
		return nil
	})
	return number, err
}

func (s *ReconciliationService) mustProduct(ctx context.Context, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.InvalidInput("product_id requerido")
	}
	product, err := s.reader.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return product, nil
}
