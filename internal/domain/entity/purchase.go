package entity

import "github.com/shopspring/decimal"

// Purchase compra a proveedor (agregado externo). Solo se leen ID, InvoiceNumber e Items.
type Purchase struct {
	ID            string
	InvoiceNumber string
	Items         []PurchaseItem
}

// PurchaseItem línea de compra.
type PurchaseItem struct {
	ProductID     string
	Quantity      int64
	PurchasePrice decimal.Decimal
	TotalPrice    decimal.Decimal
}

// Transaction venta en caja (agregado externo).
type Transaction struct {
	ID      string
	Invoice string
	Details []TransactionDetail
}

// TransactionDetail línea de venta.
type TransactionDetail struct {
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
}

// StockRequest par producto/cantidad usado en las validaciones de stock previas a la venta.
type StockRequest struct {
	ProductID string
	Quantity  int64
}
