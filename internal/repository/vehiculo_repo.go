package repository

import (
	"context"
	"time"

	"parqueadero/internal/model"

	"gorm.io/gorm"
)

type VehiculoRepository interface {
	WithTx(tx *gorm.DB) VehiculoRepository
	DB() *gorm.DB

	Create(ctx context.Context, v *model.VehiculoEstacionado) error
	// Finalizar writes the exit of an active stay. It returns
	// gorm.ErrRecordNotFound when the stay was already closed.
	Finalizar(ctx context.Context, v *model.VehiculoEstacionado) error
	FindActivoPorPlaca(ctx context.Context, placa string) (*model.VehiculoEstacionado, error)
	FindActivoPorEspacio(ctx context.Context, espacio int) (*model.VehiculoEstacionado, error)
	ListActivos(ctx context.Context) ([]model.VehiculoEstacionado, error)
	// TieneNoPagados reports whether the plate left without paying at least once.
	TieneNoPagados(ctx context.Context, placa string) (bool, error)
	// ContarEntradas counts stays that entered in [desde, hasta), leaving out
	// the ones that already ended unpaid.
	ContarEntradas(ctx context.Context, desde, hasta time.Time) (int64, error)
}

type vehiculoRepo struct{ db *gorm.DB }

func NewVehiculoRepository(db *gorm.DB) VehiculoRepository { return &vehiculoRepo{db: db} }

func (r *vehiculoRepo) WithTx(tx *gorm.DB) VehiculoRepository { return &vehiculoRepo{db: tx} }

func (r *vehiculoRepo) DB() *gorm.DB { return r.db }

func (r *vehiculoRepo) Create(ctx context.Context, v *model.VehiculoEstacionado) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehiculoRepo) Finalizar(ctx context.Context, v *model.VehiculoEstacionado) error {
	res := r.db.WithContext(ctx).Model(&model.VehiculoEstacionado{}).
		Where("id = ? AND estado = ?", v.ID, model.EstadoVehiculoActivo).
		Updates(map[string]interface{}{
			"fecha_hora_salida": v.FechaHoraSalida,
			"costo_total":       v.CostoTotal,
			"estado":            v.Estado,
			"es_no_pagado":      v.EsNoPagado,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *vehiculoRepo) FindActivoPorPlaca(ctx context.Context, placa string) (*model.VehiculoEstacionado, error) {
	var v model.VehiculoEstacionado
	err := r.db.WithContext(ctx).
		Where("placa = ? AND estado = ?", placa, model.EstadoVehiculoActivo).First(&v).Error
	return &v, err
}

func (r *vehiculoRepo) FindActivoPorEspacio(ctx context.Context, espacio int) (*model.VehiculoEstacionado, error) {
	var v model.VehiculoEstacionado
	err := r.db.WithContext(ctx).
		Where("espacio_numero = ? AND estado = ?", espacio, model.EstadoVehiculoActivo).First(&v).Error
	return &v, err
}

func (r *vehiculoRepo) ListActivos(ctx context.Context) ([]model.VehiculoEstacionado, error) {
	var vs []model.VehiculoEstacionado
	err := r.db.WithContext(ctx).Where("estado = ?", model.EstadoVehiculoActivo).
		Order("espacio_numero ASC").Find(&vs).Error
	return vs, err
}

func (r *vehiculoRepo) TieneNoPagados(ctx context.Context, placa string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.HistorialFactura{}).
		Where("placa = ? AND es_no_pagado = ?", placa, true).Count(&n).Error
	return n > 0, err
}

func (r *vehiculoRepo) ContarEntradas(ctx context.Context, desde, hasta time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.VehiculoEstacionado{}).
		Where("fecha_hora_entrada >= ? AND fecha_hora_entrada < ?", desde, hasta).
		Where("NOT (estado = ? AND es_no_pagado = ?)", model.EstadoVehiculoFinalizado, true).
		Count(&n).Error
	return n, err
}
