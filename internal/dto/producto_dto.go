package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre    string          `json:"nombre"    validate:"required,min=2,max=150"`
	Categoria string          `json:"categoria" validate:"max=50"`
	Precio    decimal.Decimal `json:"precio"    validate:"min=0"`
	Stock     int             `json:"stock"     validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre    *string          `json:"nombre"    validate:"omitempty,min=2,max=150"`
	Categoria *string          `json:"categoria" validate:"omitempty,max=50"`
	Precio    *decimal.Decimal `json:"precio"`
	Activo    *bool            `json:"activo"`
}

type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3,max=200"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre           string `form:"nombre"`
	Categoria        string `form:"categoria"`
	IncluirInactivos bool   `form:"incluir_inactivos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     int             `json:"stock"`
	Activo    bool            `json:"activo"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type MovimientoStockResponse struct {
	ID            string    `json:"id"`
	Tipo          string    `json:"tipo"`
	Cantidad      int       `json:"cantidad"`
	StockAnterior int       `json:"stock_anterior"`
	StockNuevo    int       `json:"stock_nuevo"`
	Motivo        string    `json:"motivo"`
	ReferenciaID  *string   `json:"referencia_id"`
	CreatedAt     time.Time `json:"created_at"`
}
