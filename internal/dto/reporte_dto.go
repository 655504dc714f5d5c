package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReporteFilter struct {
	Fecha string `form:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

// ReporteDiarioResponse counts entries of the day and income of the stays that
// left that day and paid.
type ReporteDiarioResponse struct {
	Fecha              string          `json:"fecha"`
	TotalVehiculos     int64           `json:"total_vehiculos"`
	VehiculosSalieron  int             `json:"vehiculos_salieron"`
	TotalIngresos      decimal.Decimal `json:"total_ingresos"`
	TotalEfectivo      decimal.Decimal `json:"total_efectivo"`
	TotalTarjeta       decimal.Decimal `json:"total_tarjeta"`
	VehiculosNoPagados int             `json:"vehiculos_no_pagados"`
	Nocturnos          int             `json:"nocturnos"`
	Diurnos            int             `json:"diurnos"`
	PromedioMinutos    int             `json:"promedio_minutos"`
	TiempoPromedio     string          `json:"tiempo_promedio"`
	TicketPromedio     decimal.Decimal `json:"ticket_promedio"`
}

type HoraConteo struct {
	Hora     string `json:"hora"` // "HH:00"
	Cantidad int    `json:"cantidad"`
}

type EspacioConteo struct {
	Espacio int `json:"espacio"`
	Usos    int `json:"usos"`
}

type EstadisticasNoPagados struct {
	Total           int             `json:"total_no_pagados"`
	Nocturnos       int             `json:"nocturnos_no_pagados"`
	Diurnos         int             `json:"diurnos_no_pagados"`
	PerdidaEstimada decimal.Decimal `json:"perdida_estimada"`
}

type ReporteDetalladoResponse struct {
	Fecha               string                `json:"fecha"`
	VehiculosNocturnos  int                   `json:"vehiculos_nocturnos"`
	VehiculosDiurnos    int                   `json:"vehiculos_diurnos"`
	IngresosNocturnos   decimal.Decimal       `json:"ingresos_nocturnos"`
	IngresosDiurnos     decimal.Decimal       `json:"ingresos_diurnos"`
	HorasPico           []HoraConteo          `json:"horas_pico"`
	EspaciosMasUsados   []EspacioConteo       `json:"espacios_mas_utilizados"`
	DistribucionTiempo  map[string]int        `json:"distribucion_tiempo"`
	EstadisticasNoPagos EstadisticasNoPagados `json:"estadisticas_no_pagados"`
}

type GrupoNoPagados struct {
	Cantidad int             `json:"cantidad"`
	Perdida  decimal.Decimal `json:"perdida"`
}

type VehiculoNoPagado struct {
	Placa          string          `json:"placa"`
	Espacio        int             `json:"espacio"`
	Entrada        time.Time       `json:"entrada"`
	Salida         time.Time       `json:"salida"`
	TiempoMinutos  int             `json:"tiempo_minutos"`
	EsNocturno     bool            `json:"es_nocturno"`
	CostoNoCobrado decimal.Decimal `json:"costo_no_cobrado"`
}

// ReporteNoPagadosResponse prices every unpaid stay with the active rates to
// estimate what was not collected.
type ReporteNoPagadosResponse struct {
	Fecha           string             `json:"fecha"`
	Total           int                `json:"total_no_pagados"`
	PerdidaEstimada decimal.Decimal    `json:"perdida_estimada"`
	Nocturnos       GrupoNoPagados     `json:"nocturnos"`
	Normales        GrupoNoPagados     `json:"normales"`
	Vehiculos       []VehiculoNoPagado `json:"vehiculos"`
}
