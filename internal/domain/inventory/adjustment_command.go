package inventory

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// AdjustmentCommand ajuste manual como una sola operación de dominio: al ejecutarse produce
// el asiento del diario y su movimiento del ledger, con las mismas cantidades.
type AdjustmentCommand struct {
	ProductID string
	Type      entity.MovementType
	Delta     int64
	Reason    string
	Notes     string
	UserID    *string
}

// NewAdjustmentCommand ajuste por magnitud: quantity > 0 y el signo lo decide el tipo.
func NewAdjustmentCommand(productID string, t entity.MovementType, quantity int64, reason, notes string, userID *string) (AdjustmentCommand, error) {
	if productID == "" {
		return AdjustmentCommand{}, domain.InvalidInput("product_id requerido")
	}
	if quantity <= 0 {
		return AdjustmentCommand{}, domain.InvalidInput("la cantidad debe ser mayor a cero")
	}
	var delta int64
	switch {
	case t.IsAdjustment() && t.Direction() == entity.DirectionIncoming:
		delta = quantity
	case t.IsAdjustment() && t.Direction() == entity.DirectionOutgoing:
		delta = -quantity
	default:
		return AdjustmentCommand{}, domain.InvalidInput("tipo de ajuste inválido: %s", t)
	}
	return AdjustmentCommand{
		ProductID: productID,
		Type:      t,
		Delta:     delta,
		Reason:    reason,
		Notes:     notes,
		UserID:    userID,
	}, nil
}

// NewCorrectionCommand corrección a valor absoluto: delta = newQuantity - current, con cualquier signo.
func NewCorrectionCommand(productID string, current, newQuantity int64, reason string, userID *string) (AdjustmentCommand, error) {
	if productID == "" {
		return AdjustmentCommand{}, domain.InvalidInput("product_id requerido")
	}
	if newQuantity < 0 {
		return AdjustmentCommand{}, domain.InvalidInput("la nueva cantidad no puede ser negativa")
	}
	return AdjustmentCommand{
		ProductID: productID,
		Type:      entity.MovementTypeCorrection,
		Delta:     newQuantity - current,
		Reason:    reason,
		UserID:    userID,
	}, nil
}

// Check rechaza el comando si deja el stock negativo.
func (c AdjustmentCommand) Check(product *entity.Product, before int64) error {
	if before+c.Delta < 0 {
		return NegativeResult(c.ProductID, product.Title, before, c.Delta)
	}
	return nil
}

// Journal construye el asiento del diario para el stock actual.
func (c AdjustmentCommand) Journal(journalNumber string, before int64, now time.Time) *entity.InventoryAdjustment {
	number := journalNumber
	return &entity.InventoryAdjustment{
		JournalNumber:  &number,
		ProductID:      c.ProductID,
		UserID:         c.UserID,
		Type:           c.Type,
		QuantityBefore: before,
		QuantityChange: c.Delta,
		QuantityAfter:  before + c.Delta,
		Reason:         c.Reason,
		Notes:          c.Notes,
		CreatedAt:      now,
	}
}

// Movement construye la fila del ledger emparejada con el asiento ya persistido (adj.ID asignado).
func (c AdjustmentCommand) Movement(adj *entity.InventoryAdjustment) *entity.StockMovement {
	refType := entity.ReferenceAdjustment
	refID := strconv.FormatInt(adj.ID, 10)
	notes := adj.Reason
	if adj.Notes != "" {
		notes = adj.Reason + " - " + adj.Notes
	}
	return &entity.StockMovement{
		ProductID:      c.ProductID,
		UserID:         c.UserID,
		Type:           c.Type,
		Quantity:       c.Delta,
		UnitPrice:      decimal.Zero,
		TotalPrice:     decimal.Zero,
		QuantityBefore: adj.QuantityBefore,
		QuantityAfter:  adj.QuantityAfter,
		ReferenceType:  &refType,
		ReferenceID:    &refID,
		Notes:          notes,
		CreatedAt:      adj.CreatedAt,
	}
}

// Matches verifica que el movimiento persistido coincide con el asiento.
func Matches(adj *entity.InventoryAdjustment, mov *entity.StockMovement) bool {
	return adj.QuantityBefore == mov.QuantityBefore &&
		adj.QuantityChange == mov.Quantity &&
		adj.QuantityAfter == mov.QuantityAfter &&
		adj.Type == mov.Type
}
