package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jhoicas/pos-inventory/internal/domain"
)

// JournalPrefix prefijo de los números de diario de ajustes.
const JournalPrefix = "ADJ"

// MaxJournalSequence la secuencia diaria usa 4 dígitos.
const MaxJournalSequence = 9999

var journalNumberRe = regexp.MustCompile(`^ADJ(\d{8})(\d{4})$`)

// JournalDay fecha del diario en formato YYYYMMDD.
func JournalDay(t time.Time) string {
	return t.Format("20060102")
}

// JournalDayPrefix prefijo compartido por todos los números de un día, p. ej. ADJ20260104.
func JournalDayPrefix(t time.Time) string {
	return JournalPrefix + JournalDay(t)
}

// FormatJournalNumber arma ADJ + YYYYMMDD + secuencia de 4 dígitos.
func FormatJournalNumber(t time.Time, seq int) (string, error) {
	if seq < 1 || seq > MaxJournalSequence {
		return "", domain.InvalidInput("secuencia de diario fuera de rango: %d", seq)
	}
	return fmt.Sprintf("%s%04d", JournalDayPrefix(t), seq), nil
}

// ParseJournalNumber separa fecha y secuencia. ok=false si el formato no es válido.
func ParseJournalNumber(s string) (day string, seq int, ok bool) {
	m := journalNumberRe.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], seq, true
}
