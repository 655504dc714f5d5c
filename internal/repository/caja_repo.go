package repository

import (
	"context"

	"parqueadero/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CajaRepository persists drawer sessions and the cash movements owned by them.
type CajaRepository interface {
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) CajaRepository
	DB() *gorm.DB

	Create(ctx context.Context, c *model.Caja) error
	FindAbierta(ctx context.Context) (*model.Caja, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	// LockByID selects the drawer FOR UPDATE; only meaningful inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	Update(ctx context.Context, c *model.Caja) error
	CreateDenominaciones(ctx context.Context, ds []model.DenominacionCaja) error
	ListCerradas(ctx context.Context, limite int) ([]model.Caja, error)

	CreateEgreso(ctx context.Context, e *model.EgresoCaja) error
	ListEgresos(ctx context.Context, cajaID uuid.UUID) ([]model.EgresoCaja, error)
	SumEgresos(ctx context.Context, cajaID uuid.UUID) (decimal.Decimal, error)

	CreateMovimientoManual(ctx context.Context, m *model.MovimientoManualCaja) error
	ListMovimientosManuales(ctx context.Context, cajaID uuid.UUID) ([]model.MovimientoManualCaja, error)
	SumMovimientosManuales(ctx context.Context, cajaID uuid.UUID) (decimal.Decimal, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) WithTx(tx *gorm.DB) CajaRepository { return &cajaRepo{db: tx} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindAbierta(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Preload("Denominaciones").
		Where("estado = ?", model.EstadoCajaAbierta).First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Preload("Denominaciones").Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *cajaRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *cajaRepo) CreateDenominaciones(ctx context.Context, ds []model.DenominacionCaja) error {
	if len(ds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ds).Error
}

func (r *cajaRepo) ListCerradas(ctx context.Context, limite int) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).Preload("Denominaciones").
		Where("estado = ?", model.EstadoCajaCerrada).
		Order("fecha_apertura DESC").Limit(limite).Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) CreateEgreso(ctx context.Context, e *model.EgresoCaja) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *cajaRepo) ListEgresos(ctx context.Context, cajaID uuid.UUID) ([]model.EgresoCaja, error) {
	var egresos []model.EgresoCaja
	err := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("fecha DESC").Find(&egresos).Error
	return egresos, err
}

func (r *cajaRepo) SumEgresos(ctx context.Context, cajaID uuid.UUID) (decimal.Decimal, error) {
	total, _, err := scanSuma(r.db.WithContext(ctx).Model(&model.EgresoCaja{}).
		Select("COALESCE(SUM(monto), 0), COUNT(*)").Where("caja_id = ?", cajaID).Row())
	return total, err
}

func (r *cajaRepo) CreateMovimientoManual(ctx context.Context, m *model.MovimientoManualCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) ListMovimientosManuales(ctx context.Context, cajaID uuid.UUID) ([]model.MovimientoManualCaja, error) {
	var movs []model.MovimientoManualCaja
	err := r.db.WithContext(ctx).Where("caja_id = ?", cajaID).Order("fecha DESC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumMovimientosManuales(ctx context.Context, cajaID uuid.UUID) (decimal.Decimal, error) {
	total, _, err := scanSuma(r.db.WithContext(ctx).Model(&model.MovimientoManualCaja{}).
		Select("COALESCE(SUM(monto), 0), COUNT(*)").Where("caja_id = ?", cajaID).Row())
	return total, err
}
