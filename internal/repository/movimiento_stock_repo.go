package repository

import (
	"context"

	"parqueadero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimientoStockRepository interface {
	WithTx(tx *gorm.DB) MovimientoStockRepository

	Create(ctx context.Context, m *model.MovimientoStock) error
	ListPorProducto(ctx context.Context, productoID uuid.UUID, limite int) ([]model.MovimientoStock, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) WithTx(tx *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: tx}
}

func (r *movimientoStockRepo) Create(ctx context.Context, m *model.MovimientoStock) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoStockRepo) ListPorProducto(ctx context.Context, productoID uuid.UUID, limite int) ([]model.MovimientoStock, error) {
	var movs []model.MovimientoStock
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).
		Order("created_at DESC").Limit(limite).Find(&movs).Error
	return movs, err
}
