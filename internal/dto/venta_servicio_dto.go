package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest is one line of a service sale. TipoEspecial selects the
// variant: "" is a catalog product (ProductoID, Cantidad), "bano" is restroom
// use (Personas), "hotel" is a room charge (Habitacion, Monto).
type ItemVentaRequest struct {
	TipoEspecial string          `json:"tipo_especial" validate:"omitempty,oneof=bano hotel"`
	ProductoID   string          `json:"producto_id"   validate:"omitempty,uuid"`
	Cantidad     int             `json:"cantidad"      validate:"min=0"`
	Personas     int             `json:"personas"      validate:"min=0"`
	Habitacion   string          `json:"habitacion"    validate:"max=20"`
	Monto        decimal.Decimal `json:"monto"         validate:"min=0"`
}

type CrearVentaServicioRequest struct {
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string             `json:"metodo_pago" validate:"omitempty,oneof=efectivo tarjeta"`
}

type VentaServicioFilter struct {
	Fecha  string `form:"fecha"  validate:"omitempty,datetime=2006-01-02"`
	Limite int    `form:"limite,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Tipo           string          `json:"tipo"`
	ProductoID     *string         `json:"producto_id"`
	NombreProducto string          `json:"nombre_producto"`
	Categoria      string          `json:"categoria"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Habitacion     *string         `json:"habitacion"`
}

type VentaServicioResponse struct {
	ID         string              `json:"id"`
	Total      decimal.Decimal     `json:"total"`
	MetodoPago string              `json:"metodo_pago"`
	Fecha      time.Time           `json:"fecha"`
	Items      []ItemVentaResponse `json:"items"`
}

type ResumenCategoria struct {
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type ReporteServiciosResponse struct {
	Fecha         string                      `json:"fecha"`
	TotalVentas   int                         `json:"total_ventas"`
	TotalIngresos decimal.Decimal             `json:"total_ingresos"`
	TotalEfectivo decimal.Decimal             `json:"total_efectivo"`
	TotalTarjeta  decimal.Decimal             `json:"total_tarjeta"`
	PorCategoria  map[string]ResumenCategoria `json:"por_categoria"`
}
