package model

import (
	"time"

	"parqueadero/internal/tarifa"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConfiguracionPrecios is the active rate table. Exactly one row has Activa=true.
type ConfiguracionPrecios struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Precio0a5Min        decimal.Decimal `gorm:"column:precio_0_5_min;type:decimal(12,2);not null"`
	Precio6a30Min       decimal.Decimal `gorm:"column:precio_6_30_min;type:decimal(12,2);not null"`
	Precio31a60Min      decimal.Decimal `gorm:"column:precio_31_60_min;type:decimal(12,2);not null"`
	PrecioHoraAdicional decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioNocturno      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// "HH:MM", 24h clock
	HoraInicioNocturno string `gorm:"type:varchar(5);not null"`
	HoraFinNocturno    string `gorm:"type:varchar(5);not null"`
	// Evaluated in stored order, first match wins.
	RangosPersonalizados datatypes.JSONSlice[tarifa.Rango]
	Activa               bool `gorm:"not null;default:true;index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (ConfiguracionPrecios) TableName() string { return "configuracion_precios" }

func (c *ConfiguracionPrecios) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// ConfiguracionPorDefecto returns the rates used when none have been saved yet.
func ConfiguracionPorDefecto() *ConfiguracionPrecios {
	return &ConfiguracionPrecios{
		Precio0a5Min:        decimal.RequireFromString("0.50"),
		Precio6a30Min:       decimal.RequireFromString("0.75"),
		Precio31a60Min:      decimal.RequireFromString("1.00"),
		PrecioHoraAdicional: decimal.RequireFromString("1.00"),
		PrecioNocturno:      decimal.RequireFromString("10.00"),
		HoraInicioNocturno:  "19:00",
		HoraFinNocturno:     "07:00",
		Activa:              true,
	}
}

// Tarifas projects the row onto the fee calculator's price table.
func (c *ConfiguracionPrecios) Tarifas() tarifa.Tarifas {
	return tarifa.Tarifas{
		Precio0a5:           c.Precio0a5Min,
		Precio6a30:          c.Precio6a30Min,
		Precio31a60:         c.Precio31a60Min,
		PrecioHoraAdicional: c.PrecioHoraAdicional,
		PrecioNocturno:      c.PrecioNocturno,
		Rangos:              []tarifa.Rango(c.RangosPersonalizados),
	}
}
