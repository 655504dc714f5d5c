package repository

import (
	"context"

	"parqueadero/internal/model"

	"gorm.io/gorm"
)

type ConfiguracionRepository interface {
	WithTx(tx *gorm.DB) ConfiguracionRepository
	DB() *gorm.DB

	FindActiva(ctx context.Context) (*model.ConfiguracionPrecios, error)
	Create(ctx context.Context, c *model.ConfiguracionPrecios) error
	Update(ctx context.Context, c *model.ConfiguracionPrecios) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) WithTx(tx *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: tx}
}

func (r *configuracionRepo) DB() *gorm.DB { return r.db }

func (r *configuracionRepo) FindActiva(ctx context.Context) (*model.ConfiguracionPrecios, error) {
	var c model.ConfiguracionPrecios
	err := r.db.WithContext(ctx).Where("activa = ?", true).First(&c).Error
	return &c, err
}

func (r *configuracionRepo) Create(ctx context.Context, c *model.ConfiguracionPrecios) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *configuracionRepo) Update(ctx context.Context, c *model.ConfiguracionPrecios) error {
	return r.db.WithContext(ctx).Save(c).Error
}
