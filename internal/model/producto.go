package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog item sold at the counter (drinks, snacks, toiletries).
// Deleting a product only clears Activo so past sale lines keep their reference.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre    string          `gorm:"type:varchar(150);index;not null"`
	Categoria string          `gorm:"type:varchar(50);not null;default:'general';index"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Producto) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}
