package repository

import (
	"context"
	"strings"

	"parqueadero/internal/dto"
	"parqueadero/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for catalog products.
type ProductoRepository interface {
	WithTx(tx *gorm.DB) ProductoRepository
	DB() *gorm.DB

	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	// LockByID selects the product FOR UPDATE; only meaningful inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) WithTx(tx *gorm.DB) ProductoRepository { return &productoRepo{db: tx} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if !filter.IncluirInactivos {
		q = q.Where("activo = ?", true)
	}
	if filter.Nombre != "" {
		q = q.Where("LOWER(nombre) LIKE ?", "%"+strings.ToLower(filter.Nombre)+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	var productos []model.Producto
	err := q.Order("categoria ASC, nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}
