package repository

import (
	"context"
	"time"

	"parqueadero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FacturaFilter selects invoices by exit time, or by entry time when
// PorEntrada is set. Zero values disable a condition.
type FacturaFilter struct {
	PorEntrada   bool
	Desde        time.Time
	Hasta        time.Time
	Placa        string
	SoloNoPagado bool
	Limite       int
}

type FacturaRepository interface {
	WithTx(tx *gorm.DB) FacturaRepository

	Create(ctx context.Context, f *model.HistorialFactura) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.HistorialFactura, error)
	List(ctx context.Context, filter FacturaFilter) ([]model.HistorialFactura, error)
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) WithTx(tx *gorm.DB) FacturaRepository { return &facturaRepo{db: tx} }

func (r *facturaRepo) Create(ctx context.Context, f *model.HistorialFactura) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *facturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.HistorialFactura, error) {
	var f model.HistorialFactura
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, filter FacturaFilter) ([]model.HistorialFactura, error) {
	q := r.db.WithContext(ctx).Model(&model.HistorialFactura{})
	columna := "fecha_hora_salida"
	if filter.PorEntrada {
		columna = "fecha_hora_entrada"
	}
	if !filter.Desde.IsZero() {
		q = q.Where(columna+" >= ?", filter.Desde)
	}
	if !filter.Hasta.IsZero() {
		q = q.Where(columna+" < ?", filter.Hasta)
	}
	if filter.Placa != "" {
		q = q.Where("placa = ?", filter.Placa)
	}
	if filter.SoloNoPagado {
		q = q.Where("es_no_pagado = ?", true)
	}
	if filter.Limite > 0 {
		q = q.Limit(filter.Limite)
	}
	var facturas []model.HistorialFactura
	err := q.Order("fecha_hora_salida DESC").Find(&facturas).Error
	return facturas, err
}
