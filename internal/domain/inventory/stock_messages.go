package inventory

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pos-inventory/internal/domain"
)

// Los mensajes al cajero se entregan en el idioma de la tienda (id-ID).
var storePrinter = message.NewPrinter(language.Indonesian)

// OutOfStock rechazo cuando el stock es exactamente cero ("stok habis").
func OutOfStock(productID, title string, requested int64) *domain.StockError {
	return &domain.StockError{
		Kind:      domain.StockErrorOutOfStock,
		ProductID: productID,
		Title:     title,
		Requested: requested,
		Available: 0,
		Message:   storePrinter.Sprintf("Stok %s habis", title),
	}
}

// Insufficient rechazo cuando hay stock pero no alcanza para la cantidad pedida.
func Insufficient(productID, title string, available, requested int64) *domain.StockError {
	return &domain.StockError{
		Kind:      domain.StockErrorInsufficient,
		ProductID: productID,
		Title:     title,
		Requested: requested,
		Available: available,
		Message:   storePrinter.Sprintf("Stok %s tidak mencukupi. Tersedia: %d, diminta: %d", title, available, requested),
	}
}

// NegativeResult rechazo de un ajuste que dejaría el stock bajo cero.
func NegativeResult(productID, title string, available, change int64) *domain.StockError {
	return &domain.StockError{
		Kind:      domain.StockErrorInsufficient,
		ProductID: productID,
		Title:     title,
		Requested: -change,
		Available: available,
		Message:   storePrinter.Sprintf("Stok %s tidak mencukupi untuk pengurangan %d. Stok saat ini: %d", title, -change, available),
	}
}
