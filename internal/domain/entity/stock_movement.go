package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo cerrado de movimiento del ledger de stock.
type MovementType string

const (
	MovementTypePurchase      MovementType = "purchase"
	MovementTypeSale          MovementType = "sale"
	MovementTypeAdjustmentIn  MovementType = "adjustment_in"
	MovementTypeAdjustmentOut MovementType = "adjustment_out"
	MovementTypeReturn        MovementType = "return"
	MovementTypeDamage        MovementType = "damage"
	MovementTypeCorrection    MovementType = "correction"
)

// Direction clasificación estática de un tipo de movimiento. No depende del signo guardado.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionIncoming
	DirectionOutgoing
)

func (d Direction) String() string {
	switch d {
	case DirectionIncoming:
		return "incoming"
	case DirectionOutgoing:
		return "outgoing"
	}
	return "none"
}

type movementTypeInfo struct {
	label      string
	direction  Direction
	adjustment bool // tipo permitido en el diario de ajustes manuales
}

var movementTypes = map[MovementType]movementTypeInfo{
	MovementTypePurchase:      {label: "Pembelian", direction: DirectionIncoming},
	MovementTypeSale:          {label: "Penjualan", direction: DirectionOutgoing},
	MovementTypeAdjustmentIn:  {label: "Adjustment Masuk", direction: DirectionIncoming, adjustment: true},
	MovementTypeAdjustmentOut: {label: "Adjustment Keluar", direction: DirectionOutgoing, adjustment: true},
	MovementTypeReturn:        {label: "Return Barang", direction: DirectionIncoming, adjustment: true},
	MovementTypeDamage:        {label: "Barang Rusak", direction: DirectionOutgoing, adjustment: true},
	MovementTypeCorrection:    {label: "Koreksi Stok", direction: DirectionNone, adjustment: true},
}

// AllMovementTypes en el orden en que se muestran en los filtros.
var AllMovementTypes = []MovementType{
	MovementTypePurchase,
	MovementTypeSale,
	MovementTypeAdjustmentIn,
	MovementTypeAdjustmentOut,
	MovementTypeReturn,
	MovementTypeDamage,
	MovementTypeCorrection,
}

// ParseMovementType valida un string recibido desde fuera del dominio.
func ParseMovementType(s string) (MovementType, bool) {
	t := MovementType(s)
	_, ok := movementTypes[t]
	return t, ok
}

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	_, ok := movementTypes[t]
	return ok
}

// Label etiqueta legible (texto de presentación, se entrega tal cual).
func (t MovementType) Label() string {
	if info, ok := movementTypes[t]; ok {
		return info.label
	}
	return string(t)
}

// Direction devuelve la dirección fija del tipo; correction no es entrada ni salida.
func (t MovementType) Direction() Direction {
	return movementTypes[t].direction
}

// IsAdjustment indica si el tipo puede registrarse en el diario de ajustes.
func (t MovementType) IsAdjustment() bool {
	return movementTypes[t].adjustment
}

// TypesByDirection lista los tipos con la dirección indicada.
func TypesByDirection(d Direction) []MovementType {
	var out []MovementType
	for _, t := range AllMovementTypes {
		if t.Direction() == d {
			out = append(out, t)
		}
	}
	return out
}

// Tipos de referencia hacia el documento origen del movimiento.
const (
	ReferencePurchase    = "purchase"
	ReferenceTransaction = "transaction"
	ReferenceAdjustment  = "adjustment"
)

// StockMovement fila inmutable del ledger de stock.
// Quantity positivo en entradas y negativo en salidas; QuantityAfter = QuantityBefore + Quantity.
type StockMovement struct {
	ID             int64
	ProductID      string
	UserID         *string // nil en movimientos generados por el sistema
	Type           MovementType
	Quantity       int64
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal
	QuantityBefore int64
	QuantityAfter  int64
	ReferenceType  *string
	ReferenceID    *string
	Notes          string
	CreatedAt      time.Time
}
