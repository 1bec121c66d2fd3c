package dto

// Límites de página de los listados del ledger y del diario.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// PageRequest limit/offset de GET /movements y GET /adjustments.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage completa la página: sin limit usa DefaultPageLimit y uno mayor que MaxPageLimit
// se recorta. Un offset negativo vuelve a 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse página devuelta. Count son las filas de esta página; si Count == Limit puede haber más.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP. Details lista los campos rechazados por la validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
