package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialFactura is the immutable invoice written when a stay ends.
// Unpaid invoices carry CostoTotal=0 and never count as drawer income.
type HistorialFactura struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VehiculoID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Placa              string          `gorm:"type:varchar(20);not null;index"`
	EspacioNumero      int             `gorm:"not null"`
	FechaHoraEntrada   time.Time       `gorm:"not null"`
	FechaHoraSalida    time.Time       `gorm:"not null;index"`
	TiempoTotalMinutos int             `gorm:"not null"`
	CostoTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DetallesCobro      string          `gorm:"type:text"`
	EsNocturno         bool            `gorm:"not null;default:false"`
	EsNoPagado         bool            `gorm:"not null;default:false;index"`
	MetodoPago         string          `gorm:"type:varchar(20);not null;default:'efectivo'"`
	FechaGeneracion    time.Time       `gorm:"not null;index"`
}

func (HistorialFactura) TableName() string { return "historial_facturas" }

func (f *HistorialFactura) BeforeCreate(*gorm.DB) error {
	asignarID(&f.ID)
	return nil
}
