package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventory/internal/domain/inventory"
)

// Journal genera números de diario ADJ + YYYYMMDD + secuencia diaria.
type Journal struct {
	loc *time.Location
}

// NewJournal la fecha del número se toma en la zona horaria de la tienda.
func NewJournal(loc *time.Location) *Journal {
	if loc == nil {
		loc = time.Local
	}
	return &Journal{loc: loc}
}

// GenerateNumber debe llamarse dentro de la misma transacción que inserta el asiento:
// el contador del día queda bloqueado hasta el commit.
func (j *Journal) GenerateNumber(ctx context.Context, repos Repos, now time.Time) (string, error) {
	day := now.In(j.loc)
	seq, err := repos.Adjustments.NextJournalSequence(ctx, day)
	if err != nil {
		return "", err
	}
	return inventory.FormatJournalNumber(day, seq)
}
