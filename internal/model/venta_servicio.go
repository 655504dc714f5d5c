package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de item de una venta de servicios.
const (
	ItemProducto = "producto"
	ItemBano     = "bano"
	ItemHotel    = "hotel"
)

// VentaServicio is a non-parking sale: catalog products, restroom use or a
// hotel room charge. Only non-card sales count as drawer cash.
type VentaServicio struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null;default:'efectivo'"`
	Fecha      time.Time       `gorm:"not null;index"`

	Items []ItemVentaServicio `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

func (VentaServicio) TableName() string { return "ventas_servicios" }

func (v *VentaServicio) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	return nil
}

// ItemVentaServicio is a line of a VentaServicio. ProductoID is set only for
// catalog products; Habitacion only for hotel charges.
type ItemVentaServicio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           string          `gorm:"type:varchar(20);not null"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid;index"`
	NombreProducto string          `gorm:"type:varchar(150);not null"`
	Categoria      string          `gorm:"type:varchar(50);not null;default:'servicio'"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Habitacion     *string         `gorm:"type:varchar(20)"`
}

func (ItemVentaServicio) TableName() string { return "items_venta_servicio" }

func (i *ItemVentaServicio) BeforeCreate(*gorm.DB) error {
	asignarID(&i.ID)
	return nil
}
