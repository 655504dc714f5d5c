package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de Caja.
const (
	EstadoCajaAbierta = "abierta"
	EstadoCajaCerrada = "cerrada"
)

// Tipos de conteo de denominaciones.
const (
	ConteoApertura = "apertura"
	ConteoCierre   = "cierre"
)

// Caja is a drawer session. Close fields stay nil until Estado is "cerrada";
// once closed the row is never modified.
type Caja struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MontoInicial     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FechaApertura    time.Time       `gorm:"not null;index"`
	OperadorApertura string          `gorm:"type:varchar(100);not null"`
	NotasApertura    *string

	// Snapshot taken on close
	MontoFinal     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	FechaCierre    *time.Time
	OperadorCierre *string `gorm:"type:varchar(100)"`
	NotasCierre    *string
	TotalParqueo   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalServicios decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalManuales  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalEgresos   decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TotalIngresos  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	MontoEsperado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia     *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Estado    string `gorm:"type:varchar(20);not null;default:'abierta'"`
	CreatedAt time.Time

	Denominaciones []DenominacionCaja `gorm:"foreignKey:CajaID;constraint:OnDelete:CASCADE"`
}

func (Caja) TableName() string { return "cajas" }

func (c *Caja) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// DenominacionCaja is one line of a bill/coin count taken at open or close.
type DenominacionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CajaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoConteo   string          `gorm:"type:varchar(10);not null"` // "apertura" | "cierre"
	Denominacion decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad     int             `gorm:"not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
}

func (DenominacionCaja) TableName() string { return "denominaciones_caja" }

func (d *DenominacionCaja) BeforeCreate(*gorm.DB) error {
	asignarID(&d.ID)
	return nil
}

// EgresoCaja is a cash withdrawal. Immutable once written.
type EgresoCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CajaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"type:text;not null"`
	Operador    string          `gorm:"type:varchar(100);not null"`
	Fecha       time.Time       `gorm:"not null"`
}

func (EgresoCaja) TableName() string { return "egresos_caja" }

func (e *EgresoCaja) BeforeCreate(*gorm.DB) error {
	asignarID(&e.ID)
	return nil
}

// MovimientoManualCaja is cash added to the drawer outside a sale. Immutable.
type MovimientoManualCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CajaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"type:text;not null"`
	Operador    string          `gorm:"type:varchar(100);not null"`
	Fecha       time.Time       `gorm:"not null"`
}

func (MovimientoManualCaja) TableName() string { return "movimientos_manuales_caja" }

func (m *MovimientoManualCaja) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
