package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStock registra cada cambio de stock en un producto.
// Se crea al vender o al ajustar el stock desde el catalogo.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(20);not null"` // "venta" | "ajuste_manual"
	Cantidad      int       `gorm:"not null"`                  // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_servicio id when Tipo="venta"
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
