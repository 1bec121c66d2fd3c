package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// PurchaseRequest body para POST /api/inventory/purchases y /purchases/reverse.
// Lo envía el módulo de compras una sola vez por transición de estado.
type PurchaseRequest struct {
	PurchaseID    string                `json:"purchase_id" validate:"required,max=64"`
	InvoiceNumber string                `json:"invoice_number" validate:"max=64"`
	Items         []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemRequest línea de compra. TotalPrice vacío = purchase_price * quantity.
type PurchaseItemRequest struct {
	ProductID     string           `json:"product_id" validate:"required,uuid"`
	Quantity      int64            `json:"quantity" validate:"gt=0"`
	PurchasePrice decimal.Decimal  `json:"purchase_price" validate:"min=0"`
	TotalPrice    *decimal.Decimal `json:"total_price,omitempty" validate:"omitempty,min=0"`
}

// ToEntity convierte el request al agregado de compra.
func (r PurchaseRequest) ToEntity() *entity.Purchase {
	p := &entity.Purchase{ID: r.PurchaseID, InvoiceNumber: r.InvoiceNumber}
	for _, it := range r.Items {
		item := entity.PurchaseItem{ProductID: it.ProductID, Quantity: it.Quantity, PurchasePrice: it.PurchasePrice}
		if it.TotalPrice != nil {
			item.TotalPrice = *it.TotalPrice
		}
		p.Items = append(p.Items, item)
	}
	return p
}

// TransactionRequest body para POST /api/inventory/transactions (venta confirmada en caja).
type TransactionRequest struct {
	TransactionID string                     `json:"transaction_id" validate:"required,max=64"`
	Invoice       string                     `json:"invoice" validate:"max=64"`
	Details       []TransactionDetailRequest `json:"details" validate:"required,min=1,dive"`
}

// TransactionDetailRequest línea de venta.
type TransactionDetailRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price" validate:"min=0"`
}

// ToEntity convierte el request a la venta.
func (r TransactionRequest) ToEntity() *entity.Transaction {
	t := &entity.Transaction{ID: r.TransactionID, Invoice: r.Invoice}
	for _, d := range r.Details {
		t.Details = append(t.Details, entity.TransactionDetail{ProductID: d.ProductID, Quantity: d.Quantity, Price: d.Price})
	}
	return t
}

// AdjustmentRequest body para POST /api/inventory/adjustments. Quantity es magnitud; el tipo decide el signo.
type AdjustmentRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
	Type      string `json:"type" validate:"required,oneof=adjustment_in adjustment_out return damage"`
	Reason    string `json:"reason" validate:"required,max=255"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// CorrectionRequest body para POST /api/inventory/corrections (stock opname).
type CorrectionRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	NewQuantity *int64 `json:"new_quantity" validate:"required,min=0"`
	Reason      string `json:"reason" validate:"required,max=255"`
}

// StockCheckRequest body para POST /api/inventory/validate y /validate/strict.
type StockCheckRequest struct {
	Items []StockCheckItem `json:"items" validate:"required,min=1,dive"`
}

// StockCheckItem par producto/cantidad del carrito.
type StockCheckItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity"`
}

// ToEntity convierte el carrito a la lista de validación.
func (r StockCheckRequest) ToEntity() []entity.StockRequest {
	out := make([]entity.StockRequest, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, entity.StockRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// MovementListQuery query string de GET /api/inventory/movements.
type MovementListQuery struct {
	ProductID     string `query:"product_id" validate:"omitempty,uuid"`
	Types         string `query:"types"` // separados por coma
	Direction     string `query:"direction" validate:"omitempty,oneof=incoming outgoing"`
	From          string `query:"from"`
	To            string `query:"to"`
	ReferenceType string `query:"reference_type" validate:"omitempty,oneof=purchase transaction adjustment"`
	ReferenceID   string `query:"reference_id"`
	PageRequest
}

// AdjustmentListQuery query string de GET /api/inventory/adjustments.
type AdjustmentListQuery struct {
	ProductID     string `query:"product_id" validate:"omitempty,uuid"`
	Type          string `query:"type" validate:"omitempty,oneof=adjustment_in adjustment_out return damage correction"`
	From          string `query:"from"`
	To            string `query:"to"`
	IncludeLegacy bool   `query:"include_legacy"` // incluye filas heredadas sin número de diario
	PageRequest
}

// MovementDTO fila del ledger.
type MovementDTO struct {
	ID             int64           `json:"id"`
	ProductID      string          `json:"product_id"`
	UserID         *string         `json:"user_id,omitempty"`
	MovementType   string          `json:"movement_type"`
	TypeLabel      string          `json:"type_label"`
	Direction      string          `json:"direction"`
	Quantity       int64           `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	QuantityBefore int64           `json:"quantity_before"`
	QuantityAfter  int64           `json:"quantity_after"`
	ReferenceType  *string         `json:"reference_type,omitempty"`
	ReferenceID    *string         `json:"reference_id,omitempty"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewMovementDTO mapea un movimiento del ledger.
func NewMovementDTO(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:             m.ID,
		ProductID:      m.ProductID,
		UserID:         m.UserID,
		MovementType:   string(m.Type),
		TypeLabel:      m.Type.Label(),
		Direction:      m.Type.Direction().String(),
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		TotalPrice:     m.TotalPrice,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
	}
}

// NewMovementDTOs mapea una lista; nunca devuelve nil para que el JSON sea [].
func NewMovementDTOs(list []*entity.StockMovement) []MovementDTO {
	out := make([]MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, NewMovementDTO(m))
	}
	return out
}

// AdjustmentDTO asiento del diario de ajustes.
type AdjustmentDTO struct {
	ID             int64     `json:"id"`
	JournalNumber  *string   `json:"journal_number"`
	ProductID      string    `json:"product_id"`
	UserID         *string   `json:"user_id,omitempty"`
	Type           string    `json:"type"`
	TypeLabel      string    `json:"type_label"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityChange int64     `json:"quantity_change"`
	QuantityAfter  int64     `json:"quantity_after"`
	Reason         string    `json:"reason"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAdjustmentDTO mapea un asiento.
func NewAdjustmentDTO(a *entity.InventoryAdjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:             a.ID,
		JournalNumber:  a.JournalNumber,
		ProductID:      a.ProductID,
		UserID:         a.UserID,
		Type:           string(a.Type),
		TypeLabel:      a.Type.Label(),
		QuantityBefore: a.QuantityBefore,
		QuantityChange: a.QuantityChange,
		QuantityAfter:  a.QuantityAfter,
		Reason:         a.Reason,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
	}
}

// AdjustmentResultDTO respuesta de ajuste o corrección: asiento y movimiento creados juntos.
type AdjustmentResultDTO struct {
	Adjustment AdjustmentDTO `json:"adjustment"`
	Movement   MovementDTO   `json:"movement"`
}

// StockValidationDTO respuesta de la validación acumulada.
type StockValidationDTO struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// StockCardDTO estado de stock de un producto.
type StockCardDTO struct {
	ProductID        string          `json:"product_id"`
	Barcode          string          `json:"barcode"`
	Title            string          `json:"title"`
	Stock            int64           `json:"stock"`
	SnapshotQuantity *int64          `json:"snapshot_quantity"`
	ProductStock     int64           `json:"product_stock"`
	AverageBuyPrice  decimal.Decimal `json:"average_buy_price"`
	SellPrice        decimal.Decimal `json:"sell_price"`
	InSync           bool            `json:"in_sync"`
}

// SyncResultDTO respuesta de las operaciones de reparación.
type SyncResultDTO struct {
	Operation string `json:"operation"`
	Rows      int    `json:"rows"`
}

// MovementTypeDTO tipo de movimiento con su etiqueta, para los filtros de la UI.
type MovementTypeDTO struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Direction  string `json:"direction"`
	Adjustable bool   `json:"adjustable"`
}
