package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOutOfStock        = errors.New("stock agotado")
	ErrLockNotObtained   = errors.New("no se pudo obtener el bloqueo")
)

// StockErrorKind distingue el motivo de un rechazo por stock.
type StockErrorKind string

const (
	StockErrorOutOfStock   StockErrorKind = "out_of_stock"
	StockErrorInsufficient StockErrorKind = "insufficient"
)

// StockError error estructurado de validación de stock. Message es el texto para el usuario final.
type StockError struct {
	Kind      StockErrorKind
	ProductID string
	Title     string
	Requested int64
	Available int64
	Message   string
}

func (e *StockError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: producto %s (solicitado %d, disponible %d)", e.Kind, e.ProductID, e.Requested, e.Available)
}

// Unwrap permite errors.Is(err, ErrOutOfStock) / errors.Is(err, ErrInsufficientStock).
func (e *StockError) Unwrap() error {
	if e.Kind == StockErrorOutOfStock {
		return ErrOutOfStock
	}
	return ErrInsufficientStock
}

// InvalidInput envuelve ErrInvalidInput con el detalle del campo rechazado.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
