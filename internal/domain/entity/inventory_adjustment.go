package entity

import "time"

// InventoryAdjustment asiento del diario de ajustes manuales. Siempre se crea junto con
// un StockMovement (reference_type=adjustment, reference_id=ID) con las mismas cantidades.
// JournalNumber nil solo en filas heredadas insertadas fuera del servicio.
type InventoryAdjustment struct {
	ID             int64
	JournalNumber  *string
	ProductID      string
	UserID         *string
	Type           MovementType
	QuantityBefore int64
	QuantityChange int64
	QuantityAfter  int64
	Reason         string
	Notes          string
	CreatedAt      time.Time
}
