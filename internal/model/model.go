// Package model holds the gorm-mapped persistence structs.
// Money is always decimal(12,2); never float.
package model

import "github.com/google/uuid"

// Metodos de pago aceptados.
const (
	MetodoEfectivo = "efectivo"
	MetodoTarjeta  = "tarjeta"
)

func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
