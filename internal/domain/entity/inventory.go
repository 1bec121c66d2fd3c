package entity

import "time"

// Inventory snapshot del stock actual de un producto (una fila por producto).
// Caché del ledger: Quantity debe coincidir con la suma de movimientos después de cada commit.
type Inventory struct {
	ID        int64
	ProductID string
	Barcode   string
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
