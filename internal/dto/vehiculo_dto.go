package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// EntradaRequest registers a vehicle. A nil EsNocturno is resolved from the
// configured night window at the moment of entry.
type EntradaRequest struct {
	Placa         string `json:"placa"          validate:"required,max=20"`
	EspacioNumero int    `json:"espacio_numero" validate:"required,min=1"`
	EsNocturno    *bool  `json:"es_nocturno"`
}

type SalidaRequest struct {
	Placa      string `json:"placa"        validate:"required,max=20"`
	EsNoPagado bool   `json:"es_no_pagado"`
	MetodoPago string `json:"metodo_pago"  validate:"omitempty,oneof=efectivo tarjeta"`
}

type HistorialFilter struct {
	Fecha  string `form:"fecha"  validate:"omitempty,datetime=2006-01-02"`
	Placa  string `form:"placa"  validate:"max=20"`
	Limite int    `form:"limite,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VehiculoResponse struct {
	ID               string           `json:"id"`
	Placa            string           `json:"placa"`
	EspacioNumero    int              `json:"espacio_numero"`
	FechaHoraEntrada time.Time        `json:"fecha_hora_entrada"`
	FechaHoraSalida  *time.Time       `json:"fecha_hora_salida"`
	CostoTotal       *decimal.Decimal `json:"costo_total"`
	Estado           string           `json:"estado"`
	EsNocturno       bool             `json:"es_nocturno"`
	EsNoPagado       bool             `json:"es_no_pagado"`
}

type EspacioResponse struct {
	Numero   int               `json:"numero"`
	Ocupado  bool              `json:"ocupado"`
	Vehiculo *VehiculoResponse `json:"vehiculo"`
}

type EspaciosResponse struct {
	Total    int               `json:"total"`
	Ocupados int               `json:"ocupados"`
	Libres   int               `json:"libres"`
	Espacios []EspacioResponse `json:"espacios"`
}

type FacturaResponse struct {
	ID                 string          `json:"id"`
	VehiculoID         string          `json:"vehiculo_id"`
	Placa              string          `json:"placa"`
	EspacioNumero      int             `json:"espacio_numero"`
	FechaHoraEntrada   time.Time       `json:"fecha_hora_entrada"`
	FechaHoraSalida    time.Time       `json:"fecha_hora_salida"`
	TiempoTotalMinutos int             `json:"tiempo_total_minutos"`
	TiempoFormateado   string          `json:"tiempo_formateado"`
	CostoTotal         decimal.Decimal `json:"costo_total"`
	DetallesCobro      string          `json:"detalles_cobro"`
	EsNocturno         bool            `json:"es_nocturno"`
	EsNoPagado         bool            `json:"es_no_pagado"`
	MetodoPago         string          `json:"metodo_pago"`
	FechaGeneracion    time.Time       `json:"fecha_generacion"`
}

type SalidaResponse struct {
	Vehiculo VehiculoResponse `json:"vehiculo"`
	Factura  FacturaResponse  `json:"factura"`
}

type BusquedaVehiculoResponse struct {
	Vehiculo             VehiculoResponse `json:"vehiculo"`
	MinutosTranscurridos int              `json:"minutos_transcurridos"`
	TiempoFormateado     string           `json:"tiempo_formateado"`
	CostoEstimado        decimal.Decimal  `json:"costo_estimado"`
	DetallesCobro        string           `json:"detalles_cobro"`
}
