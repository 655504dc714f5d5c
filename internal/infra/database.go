package infra

import (
	"fmt"

	"parqueadero/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection pool and brings the schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// GormConfig is shared by every dialect the module opens. TranslateError makes
// unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// RunMigrations creates / updates all tables and then applies the idempotent
// patches AutoMigrate cannot express. Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ConfiguracionPrecios{},
		&model.VehiculoEstacionado{},
		&model.HistorialFactura{},
		&model.Caja{},
		&model.DenominacionCaja{},
		&model.EgresoCaja{},
		&model.MovimientoManualCaja{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.VentaServicio{},
		&model.ItemVentaServicio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches creates the partial unique indexes that back the
// single-open-drawer and one-active-stay rules. The syntax is shared by
// Postgres and SQLite.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"una caja abierta", `CREATE UNIQUE INDEX IF NOT EXISTS idx_cajas_una_abierta
			ON cajas (estado) WHERE estado = 'abierta'`},
		{"espacio ocupado una vez", `CREATE UNIQUE INDEX IF NOT EXISTS idx_vehiculos_espacio_activo
			ON vehiculos_estacionados (espacio_numero) WHERE estado = 'activo'`},
		{"placa activa una vez", `CREATE UNIQUE INDEX IF NOT EXISTS idx_vehiculos_placa_activa
			ON vehiculos_estacionados (placa) WHERE estado = 'activo'`},
		{"una configuracion activa", `CREATE UNIQUE INDEX IF NOT EXISTS idx_configuracion_activa
			ON configuracion_precios (activa) WHERE activa = true`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
