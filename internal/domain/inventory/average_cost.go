package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventory/internal/domain/entity"
)

// CurrentStock suma las cantidades firmadas de los movimientos. Sin movimientos devuelve 0.
// Se usa al crear un snapshot a partir del historial completo del producto.
func CurrentStock(movements []*entity.StockMovement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Quantity
	}
	return total
}

// AverageFromTotals costo promedio de compra: Σ total_price / Σ quantity de los movimientos purchase
// (las reversas también son purchase y restan en ambos términos). Los repositorios agregan los
// totales en SQL. Redondeado a 2 decimales; 0 si no queda cantidad comprada.
func AverageFromTotals(totalPrice decimal.Decimal, totalQty int64) decimal.Decimal {
	if totalQty <= 0 {
		return decimal.Zero
	}
	return totalPrice.Div(decimal.NewFromInt(totalQty)).Round(2)
}
