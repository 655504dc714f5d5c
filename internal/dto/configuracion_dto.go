package dto

import (
	"encoding/json"
	"time"

	"parqueadero/internal/tarifa"

	"github.com/shopspring/decimal"
)

// ActualizarConfiguracionRequest is a partial update: nil fields are kept.
// RangosPersonalizados accepts a JSON array or a string holding one; "null"
// or "[]" clears the custom tiers.
type ActualizarConfiguracionRequest struct {
	Precio0a5Min         *decimal.Decimal `json:"precio_0_5_min"`
	Precio6a30Min        *decimal.Decimal `json:"precio_6_30_min"`
	Precio31a60Min       *decimal.Decimal `json:"precio_31_60_min"`
	PrecioHoraAdicional  *decimal.Decimal `json:"precio_hora_adicional"`
	PrecioNocturno       *decimal.Decimal `json:"precio_nocturno"`
	HoraInicioNocturno   *string          `json:"hora_inicio_nocturno"`
	HoraFinNocturno      *string          `json:"hora_fin_nocturno"`
	RangosPersonalizados json.RawMessage  `json:"rangos_personalizados" swaggertype:"array,object"`
}

type ConfiguracionResponse struct {
	ID                   string          `json:"id"`
	Precio0a5Min         decimal.Decimal `json:"precio_0_5_min"`
	Precio6a30Min        decimal.Decimal `json:"precio_6_30_min"`
	Precio31a60Min       decimal.Decimal `json:"precio_31_60_min"`
	PrecioHoraAdicional  decimal.Decimal `json:"precio_hora_adicional"`
	PrecioNocturno       decimal.Decimal `json:"precio_nocturno"`
	HoraInicioNocturno   string          `json:"hora_inicio_nocturno"`
	HoraFinNocturno      string          `json:"hora_fin_nocturno"`
	RangosPersonalizados []tarifa.Rango  `json:"rangos_personalizados"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type TarifaLinea struct {
	Rango  string          `json:"rango"`
	Precio decimal.Decimal `json:"precio"`
}

// TarifasResponse is the price board shown at the counter.
type TarifasResponse struct {
	Tarifas         []TarifaLinea   `json:"tarifas"`
	PrecioNocturno  decimal.Decimal `json:"precio_nocturno"`
	HorarioNocturno string          `json:"horario_nocturno"`
}
