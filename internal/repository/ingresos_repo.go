package repository

import (
	"context"
	"time"

	"parqueadero/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Suma is an aggregated amount with the number of rows behind it.
type Suma struct {
	Total    decimal.Decimal
	Cantidad int64
}

// IngresosRepository is the drawer's view of income recorded elsewhere:
// paid parking invoices and service sales made since the drawer opened.
// Unpaid invoices never appear here.
type IngresosRepository interface {
	WithTx(tx *gorm.DB) IngresosRepository

	SumParqueo(ctx context.Context, desde time.Time, metodo string) (Suma, error)
	// SumServicios sums card sales when tarjeta is true and every other
	// payment method otherwise.
	SumServicios(ctx context.Context, desde time.Time, tarjeta bool) (Suma, error)
	ListParqueo(ctx context.Context, desde time.Time) ([]model.HistorialFactura, error)
	ListServicios(ctx context.Context, desde time.Time) ([]model.VentaServicio, error)
}

type ingresosRepo struct{ db *gorm.DB }

func NewIngresosRepository(db *gorm.DB) IngresosRepository { return &ingresosRepo{db: db} }

func (r *ingresosRepo) WithTx(tx *gorm.DB) IngresosRepository { return &ingresosRepo{db: tx} }

func (r *ingresosRepo) SumParqueo(ctx context.Context, desde time.Time, metodo string) (Suma, error) {
	total, n, err := scanSuma(r.db.WithContext(ctx).Model(&model.HistorialFactura{}).
		Select("COALESCE(SUM(costo_total), 0), COUNT(*)").
		Where("fecha_hora_salida >= ? AND es_no_pagado = ? AND metodo_pago = ?", desde, false, metodo).
		Row())
	return Suma{Total: total, Cantidad: n}, err
}

func (r *ingresosRepo) SumServicios(ctx context.Context, desde time.Time, tarjeta bool) (Suma, error) {
	q := r.db.WithContext(ctx).Model(&model.VentaServicio{}).
		Select("COALESCE(SUM(total), 0), COUNT(*)").
		Where("fecha >= ?", desde)
	if tarjeta {
		q = q.Where("metodo_pago = ?", model.MetodoTarjeta)
	} else {
		q = q.Where("metodo_pago <> ?", model.MetodoTarjeta)
	}
	total, n, err := scanSuma(q.Row())
	return Suma{Total: total, Cantidad: n}, err
}

func (r *ingresosRepo) ListParqueo(ctx context.Context, desde time.Time) ([]model.HistorialFactura, error) {
	var facturas []model.HistorialFactura
	err := r.db.WithContext(ctx).
		Where("fecha_hora_salida >= ? AND es_no_pagado = ?", desde, false).
		Order("fecha_hora_salida DESC").Find(&facturas).Error
	return facturas, err
}

func (r *ingresosRepo) ListServicios(ctx context.Context, desde time.Time) ([]model.VentaServicio, error) {
	var ventas []model.VentaServicio
	err := r.db.WithContext(ctx).Preload("Items").
		Where("fecha >= ?", desde).Order("fecha DESC").Find(&ventas).Error
	return ventas, err
}
