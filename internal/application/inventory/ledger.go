package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
)

// AppendInput datos de un movimiento nuevo. El signo de Quantity lo decide el llamador según el tipo.
// TotalPrice nil = UnitPrice * Quantity.
type AppendInput struct {
	ProductID     string
	Type          entity.MovementType
	Quantity      int64
	UnitPrice     *decimal.Decimal
	TotalPrice    *decimal.Decimal
	ReferenceType *string
	ReferenceID   *string
	UserID        *string
	Notes         string
}

// Ledger consultas y única operación de escritura (Append) sobre el ledger de movimientos.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger con el reloj indicado.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// CurrentStock stock autoritativo: suma de cantidades del ledger (0 si no hay filas).
func (l *Ledger) CurrentStock(ctx context.Context, repos Repos, productID string) (int64, error) {
	return repos.Movements.SumQuantity(ctx, productID)
}

// AverageBuyPrice costo promedio recalculado desde el historial de compras en cada llamada.
func (l *Ledger) AverageBuyPrice(ctx context.Context, repos Repos, productID string) (decimal.Decimal, error) {
	totals, err := repos.Movements.PurchaseTotals(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.AverageFromTotals(totals.TotalPrice, totals.Quantity), nil
}

// Append calcula quantity_before con el stock actual y escribe la fila. No valida que el
// resultado sea >= 0: esa precondición la garantiza el servicio de conciliación.
func (l *Ledger) Append(ctx context.Context, repos Repos, in AppendInput) (*entity.StockMovement, error) {
	if in.ProductID == "" || !in.Type.Valid() {
		return nil, domain.InvalidInput("movimiento sin producto o con tipo inválido")
	}
	before, err := repos.Movements.SumQuantity(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("stock actual: %w", err)
	}
	unitPrice := decimal.Zero
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	totalPrice := unitPrice.Mul(decimal.NewFromInt(in.Quantity))
	if in.TotalPrice != nil {
		totalPrice = *in.TotalPrice
	}
	mov := &entity.StockMovement{
		ProductID:      in.ProductID,
		UserID:         in.UserID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		UnitPrice:      unitPrice,
		TotalPrice:     totalPrice,
		QuantityBefore: before,
		QuantityAfter:  before + in.Quantity,
		ReferenceType:  in.ReferenceType,
		ReferenceID:    in.ReferenceID,
		Notes:          in.Notes,
		CreatedAt:      l.now(),
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
