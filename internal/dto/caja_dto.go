package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DenominacionItem struct {
	Denominacion decimal.Decimal `json:"denominacion" validate:"gt=0"`
	Cantidad     int             `json:"cantidad"     validate:"min=0"`
	Subtotal     decimal.Decimal `json:"subtotal"     validate:"min=0"`
}

// Denominaciones is a bill/coin count. The summed subtotals must match the
// amount it accompanies and, when sent, Total.
type Denominaciones struct {
	Items []DenominacionItem `json:"items" validate:"dive"`
	Total decimal.Decimal    `json:"total" validate:"min=0"` // 0 = not sent
}

type AbrirCajaRequest struct {
	MontoInicial   decimal.Decimal `json:"monto_inicial"  validate:"min=0"`
	Operador       string          `json:"operador"       validate:"max=100"`
	Notas          *string         `json:"notas"          validate:"omitempty,max=500"`
	Denominaciones *Denominaciones `json:"denominaciones"`
}

type CerrarCajaRequest struct {
	MontoFinal     decimal.Decimal `json:"monto_final"    validate:"min=0"`
	Operador       string          `json:"operador"       validate:"max=100"`
	Notas          *string         `json:"notas"          validate:"omitempty,max=500"`
	Denominaciones *Denominaciones `json:"denominaciones"`
}

// EgresoRequest targets the open drawer when CajaID is empty.
type EgresoRequest struct {
	CajaID      string          `json:"caja_id"     validate:"omitempty,uuid"`
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,max=500"`
	Operador    string          `json:"operador"    validate:"max=100"`
}

// AgregarEfectivoRequest targets the open drawer when CajaID is empty.
type AgregarEfectivoRequest struct {
	CajaID      string          `json:"caja_id"     validate:"omitempty,uuid"`
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	Descripcion string          `json:"descripcion" validate:"max=500"`
	Operador    string          `json:"operador"    validate:"max=100"`
}

type HistorialCajaFilter struct {
	Limite int `form:"limite,default=30" validate:"min=1,max=365"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DenominacionResponse struct {
	Denominacion decimal.Decimal `json:"denominacion"`
	Cantidad     int             `json:"cantidad"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type CajaResponse struct {
	ID               string           `json:"id"`
	Estado           string           `json:"estado"`
	MontoInicial     decimal.Decimal  `json:"monto_inicial"`
	FechaApertura    time.Time        `json:"fecha_apertura"`
	OperadorApertura string           `json:"operador_apertura"`
	NotasApertura    *string          `json:"notas_apertura"`
	MontoFinal       *decimal.Decimal `json:"monto_final"`
	FechaCierre      *time.Time       `json:"fecha_cierre"`
	OperadorCierre   *string          `json:"operador_cierre"`
	NotasCierre      *string          `json:"notas_cierre"`
	TotalParqueo     decimal.Decimal  `json:"total_parqueo"`
	TotalServicios   decimal.Decimal  `json:"total_servicios"`
	TotalManuales    decimal.Decimal  `json:"total_manuales"`
	TotalEgresos     decimal.Decimal  `json:"total_egresos"`
	TotalIngresos    decimal.Decimal  `json:"total_ingresos"`
	MontoEsperado    *decimal.Decimal `json:"monto_esperado"`
	Diferencia       *decimal.Decimal `json:"diferencia"`

	DenominacionesApertura []DenominacionResponse `json:"denominaciones_apertura"`
	DenominacionesCierre   []DenominacionResponse `json:"denominaciones_cierre"`
}

// CajaEstadoResponse is the live snapshot of the drawer. All amounts are zero
// when no drawer is open.
type CajaEstadoResponse struct {
	CajaAbierta bool          `json:"caja_abierta"`
	CajaActual  *CajaResponse `json:"caja_actual"`

	// Cash only
	TotalDiaParqueo   decimal.Decimal `json:"total_dia_parqueo"`
	TotalDiaServicios decimal.Decimal `json:"total_dia_servicios"`
	TotalDiaManuales  decimal.Decimal `json:"total_dia_manuales"`
	TotalDiaIngresos  decimal.Decimal `json:"total_dia_ingresos"`
	TotalDiaEgresos   decimal.Decimal `json:"total_dia_egresos"`
	SaldoNeto         decimal.Decimal `json:"saldo_neto"`
	SaldoActual       decimal.Decimal `json:"saldo_actual"`

	// Card, informational only
	TotalDiaParqueoTarjeta   decimal.Decimal `json:"total_dia_parqueo_tarjeta"`
	TotalDiaServiciosTarjeta decimal.Decimal `json:"total_dia_servicios_tarjeta"`
}

type MovimientoCajaResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"` // parqueo | servicio | manual | egreso
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"` // negative for egresos
	MetodoPago  string          `json:"metodo_pago"`
	Fecha       time.Time       `json:"fecha"`
	SumaACaja   bool            `json:"suma_a_caja"`
}

type MovimientosCajaResponse struct {
	Movimientos      []MovimientoCajaResponse `json:"movimientos"`
	TotalEfectivo    decimal.Decimal          `json:"total_efectivo"`
	TotalTarjeta     decimal.Decimal          `json:"total_tarjeta"`
	TotalEgresos     decimal.Decimal          `json:"total_egresos"`
	SaldoNeto        decimal.Decimal          `json:"saldo_neto"`
	TotalMovimientos int                      `json:"total_movimientos"`
}

type EgresoResponse struct {
	ID              string          `json:"id"`
	CajaID          string          `json:"caja_id"`
	Monto           decimal.Decimal `json:"monto"`
	Descripcion     string          `json:"descripcion"`
	Operador        string          `json:"operador"`
	Fecha           time.Time       `json:"fecha"`
	SaldoDisponible decimal.Decimal `json:"saldo_disponible"`
}

type MovimientoManualResponse struct {
	ID          string          `json:"id"`
	CajaID      string          `json:"caja_id"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Operador    string          `json:"operador"`
	Fecha       time.Time       `json:"fecha"`
}

type TotalesMetodo struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
	Total    decimal.Decimal `json:"total"`
	Cantidad int             `json:"cantidad"`
}

type ResumenCajaResponse struct {
	Caja          CajaResponse    `json:"caja"`
	Parqueo       TotalesMetodo   `json:"parqueo"`
	Servicios     TotalesMetodo   `json:"servicios"`
	Manuales      decimal.Decimal `json:"manuales"`
	Egresos       decimal.Decimal `json:"egresos"`
	SaldoNeto     decimal.Decimal `json:"saldo_neto"`
	MontoEsperado decimal.Decimal `json:"monto_esperado"`
}
