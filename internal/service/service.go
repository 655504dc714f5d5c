package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"parqueadero/internal/apierror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const operadorPorDefecto = "Sistema"

// runTx executes fn inside a GORM transaction.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func esNoEncontrado(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// esDuplicado reports a unique index violation (see infra.GormConfig).
func esDuplicado(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }

func parseID(raw, campo string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.Validation("%s invalido: %q", campo, raw)
	}
	return id, nil
}

func operador(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return operadorPorDefecto
	}
	return s
}

// normalizarPlaca trims and upper-cases a plate so lookups are exact.
func normalizarPlaca(placa string) string {
	return strings.ToUpper(strings.TrimSpace(placa))
}

// rangoDia returns [00:00, 24:00) of the day named by fecha ("2006-01-02") in
// the local zone, or of today when fecha is empty.
func rangoDia(fecha string, now time.Time) (time.Time, time.Time, error) {
	dia := now
	if fecha != "" {
		d, err := time.ParseInLocation("2006-01-02", fecha, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, apierror.Validation("fecha %q invalida, formato esperado AAAA-MM-DD", fecha)
		}
		dia = d
	}
	ini := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	return ini, ini.AddDate(0, 0, 1), nil
}
