package repository

import (
	"context"
	"time"

	"parqueadero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaServicioRepository interface {
	WithTx(tx *gorm.DB) VentaServicioRepository

	// Create inserts the sale together with its items.
	Create(ctx context.Context, v *model.VentaServicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VentaServicio, error)
	// List returns sales in [desde, hasta), newest first. Zero bounds are open.
	List(ctx context.Context, desde, hasta time.Time, limite int) ([]model.VentaServicio, error)
}

type ventaServicioRepo struct{ db *gorm.DB }

func NewVentaServicioRepository(db *gorm.DB) VentaServicioRepository {
	return &ventaServicioRepo{db: db}
}

func (r *ventaServicioRepo) WithTx(tx *gorm.DB) VentaServicioRepository {
	return &ventaServicioRepo{db: tx}
}

func (r *ventaServicioRepo) Create(ctx context.Context, v *model.VentaServicio) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ventaServicioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VentaServicio, error) {
	var v model.VentaServicio
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&v).Error
	return &v, err
}

func (r *ventaServicioRepo) List(ctx context.Context, desde, hasta time.Time, limite int) ([]model.VentaServicio, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if !desde.IsZero() {
		q = q.Where("fecha >= ?", desde)
	}
	if !hasta.IsZero() {
		q = q.Where("fecha < ?", hasta)
	}
	if limite > 0 {
		q = q.Limit(limite)
	}
	var ventas []model.VentaServicio
	err := q.Order("fecha DESC").Find(&ventas).Error
	return ventas, err
}
