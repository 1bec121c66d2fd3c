package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo (lo administra un colaborador externo).
// Stock es el campo heredado que refleja la cantidad del snapshot; el núcleo solo escribe ese campo.
type Product struct {
	ID         string
	Barcode    string // único
	Title      string
	CategoryID *string
	SellPrice  decimal.Decimal
	Stock      int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
