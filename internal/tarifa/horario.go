package tarifa

import (
	"fmt"
	"time"
)

// ParseHora parses a 24h "HH:MM" clock value into minutes after midnight.
func ParseHora(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, fmt.Errorf("hora %q invalida, formato esperado HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// EnHorarioNocturno reports whether t falls in the [inicio, fin) window.
// A window whose start is after its end wraps past midnight (19:00-07:00).
// Unparseable bounds disable the window.
func EnHorarioNocturno(t time.Time, inicio, fin string) bool {
	ini, err := ParseHora(inicio)
	if err != nil {
		return false
	}
	end, err := ParseHora(fin)
	if err != nil {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	if ini == end {
		return false
	}
	if ini < end {
		return m >= ini && m < end
	}
	return m >= ini || m < end
}
