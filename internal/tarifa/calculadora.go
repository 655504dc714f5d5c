// Package tarifa computes parking fees from a stay's entry and exit timestamps.
// It is pure: no I/O, no logging, no clock reads.
package tarifa

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cobro reportados en Resultado.Tipo.
const (
	TipoNormal        = "normal"
	TipoPersonalizado = "personalizado"
	TipoNocturno      = "nocturno"
)

// Rango is an operator-defined price band, inclusive on both ends.
type Rango struct {
	MinMinutos  int             `json:"min_minutos"`
	MaxMinutos  int             `json:"max_minutos"`
	Precio      decimal.Decimal `json:"precio"`
	Descripcion string          `json:"descripcion,omitempty"`
}

// Etiqueta is the text shown in the fee breakdown.
func (r Rango) Etiqueta() string {
	if r.Descripcion != "" {
		return r.Descripcion
	}
	return fmt.Sprintf("%d-%d min", r.MinMinutos, r.MaxMinutos)
}

// Tarifas is the price table a fee is computed against.
type Tarifas struct {
	Precio0a5           decimal.Decimal
	Precio6a30          decimal.Decimal
	Precio31a60         decimal.Decimal
	PrecioHoraAdicional decimal.Decimal
	PrecioNocturno      decimal.Decimal
	// Rangos are evaluated in order; the first match wins.
	Rangos []Rango
}

// Resultado is the outcome of a fee computation.
type Resultado struct {
	Costo    decimal.Decimal
	Minutos  int
	Detalles string
	Tipo     string
}

// bloqueExtra is the length in minutes of an overtime block past the first hour.
const bloqueExtra = 30

var dos = decimal.NewFromInt(2)

// MinutosTranscurridos returns the whole minutes between two instants, rounded
// up and never below 1.
func MinutosTranscurridos(entrada, salida time.Time) int {
	d := salida.Sub(entrada)
	if d <= 0 {
		return 1
	}
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	if m < 1 {
		return 1
	}
	return m
}

// Calcular computes the fee for a stay. It never fails.
func Calcular(entrada, salida time.Time, t Tarifas, nocturno bool) Resultado {
	minutos := MinutosTranscurridos(entrada, salida)

	if nocturno {
		costo := t.PrecioNocturno.Round(2)
		return Resultado{
			Costo:    costo,
			Minutos:  minutos,
			Detalles: "TARIFA NOCTURNA FIJA: $" + costo.StringFixed(2),
			Tipo:     TipoNocturno,
		}
	}

	for _, r := range t.Rangos {
		if minutos >= r.MinMinutos && minutos <= r.MaxMinutos {
			costo := r.Precio.Round(2)
			return Resultado{
				Costo:    costo,
				Minutos:  minutos,
				Detalles: fmt.Sprintf("Rango personalizado: %s: $%s", r.Etiqueta(), costo.StringFixed(2)),
				Tipo:     TipoPersonalizado,
			}
		}
	}

	var (
		costo    decimal.Decimal
		detalles []string
	)
	switch {
	case minutos <= 5:
		costo = t.Precio0a5
		detalles = append(detalles, "0-5 minutos: $"+t.Precio0a5.StringFixed(2))
	case minutos <= 30:
		costo = t.Precio6a30
		detalles = append(detalles, "6-30 minutos: $"+t.Precio6a30.StringFixed(2))
	case minutos <= 60:
		costo = t.Precio31a60
		detalles = append(detalles, "31-60 minutos: $"+t.Precio31a60.StringFixed(2))
	default:
		bloques := (minutos - 60 + bloqueExtra - 1) / bloqueExtra
		porBloque := t.PrecioHoraAdicional.Div(dos)
		extra := porBloque.Mul(decimal.NewFromInt(int64(bloques)))
		costo = t.Precio31a60.Add(extra)
		detalles = append(detalles,
			"Primera hora: $"+t.Precio31a60.StringFixed(2),
			fmt.Sprintf("%d bloque(s) de 30 min a $%s (hora adicional $%s / 2): $%s",
				bloques, porBloque.StringFixed(2), t.PrecioHoraAdicional.StringFixed(2), extra.StringFixed(2)),
		)
	}

	return Resultado{
		Costo:    costo.Round(2),
		Minutos:  minutos,
		Detalles: strings.Join(detalles, " | "),
		Tipo:     TipoNormal,
	}
}

// FormatearTiempo renders minutes as "1h 5m", "2h" or "45m".
func FormatearTiempo(minutos int) string {
	if minutos <= 0 {
		return "0m"
	}
	h, m := minutos/60, minutos%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
