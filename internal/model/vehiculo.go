package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de VehiculoEstacionado.
const (
	EstadoVehiculoActivo     = "activo"
	EstadoVehiculoFinalizado = "finalizado"
)

// VehiculoEstacionado is one stay of a plate in a space.
// At most one active row per plate and per space (partial unique indexes).
type VehiculoEstacionado struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Placa            string    `gorm:"type:varchar(20);not null;index"`
	EspacioNumero    int       `gorm:"not null;index"`
	FechaHoraEntrada time.Time `gorm:"not null"`
	FechaHoraSalida  *time.Time
	CostoTotal       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado           string           `gorm:"type:varchar(20);not null;default:'activo';index"`
	EsNocturno       bool             `gorm:"not null;default:false"`
	EsNoPagado       bool             `gorm:"not null;default:false"`
	CreatedAt        time.Time
}

func (VehiculoEstacionado) TableName() string { return "vehiculos_estacionados" }

func (v *VehiculoEstacionado) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	return nil
}
