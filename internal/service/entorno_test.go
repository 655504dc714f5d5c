package service

import (
	"context"
	"testing"
	"time"

	"parqueadero/internal/model"
	"parqueadero/internal/repository"
	"parqueadero/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 2026-03-10 08:00 UTC, a Tuesday morning outside the night window.
var inicio = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type reloj struct{ t time.Time }

func (r *reloj) now() time.Time          { return r.t }
func (r *reloj) avanzar(d time.Duration) { r.t = r.t.Add(d) }

// entorno wires every service against one throwaway database and one clock.
type entorno struct {
	db    *gorm.DB
	reloj *reloj

	facturas    repository.FacturaRepository
	productosDB repository.ProductoRepository

	config    ConfiguracionService
	caja      *cajaService
	vehiculos *vehiculoService
	ventas    *ventaServicioService
	productos *productoService
	reportes  *reporteService
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db := testutil.NewDB(t)
	r := &reloj{t: inicio}

	facturas := repository.NewFacturaRepository(db)
	vehiculosRepo := repository.NewVehiculoRepository(db)
	productosRepo := repository.NewProductoRepository(db)
	movimientos := repository.NewMovimientoStockRepository(db)
	config := NewConfiguracionService(repository.NewConfiguracionRepository(db))

	caja := NewCajaService(repository.NewCajaRepository(db), repository.NewIngresosRepository(db), nil).(*cajaService)
	caja.now = r.now
	vehiculos := NewVehiculoService(vehiculosRepo, facturas, config, VehiculoOpciones{
		TotalEspacios:     10,
		BloquearNoPagados: true,
		NombreNegocio:     "Parqueadero Test",
	}).(*vehiculoService)
	vehiculos.now = r.now
	ventas := NewVentaServicioService(repository.NewVentaServicioRepository(db), productosRepo, movimientos,
		decimal.RequireFromString("0.25")).(*ventaServicioService)
	ventas.now = r.now
	reportes := NewReporteService(facturas, vehiculosRepo, config, nil).(*reporteService)
	reportes.now = r.now

	return &entorno{
		db:          db,
		reloj:       r,
		facturas:    facturas,
		productosDB: productosRepo,
		config:      config,
		caja:        caja,
		vehiculos:   vehiculos,
		ventas:      ventas,
		productos:   NewProductoService(productosRepo, movimientos).(*productoService),
		reportes:    reportes,
	}
}

// factura writes a finished stay's invoice directly, leaving at the current clock.
func (e *entorno) factura(t *testing.T, placa string, costo string, metodo string, noPagado bool) *model.HistorialFactura {
	t.Helper()
	salida := e.reloj.now()
	f := &model.HistorialFactura{
		VehiculoID:         uuid.New(),
		Placa:              placa,
		EspacioNumero:      1,
		FechaHoraEntrada:   salida.Add(-45 * time.Minute),
		FechaHoraSalida:    salida,
		TiempoTotalMinutos: 45,
		CostoTotal:         decimal.RequireFromString(costo),
		EsNoPagado:         noPagado,
		MetodoPago:         metodo,
		FechaGeneracion:    salida,
	}
	require.NoError(t, e.facturas.Create(context.Background(), f))
	return f
}

func (e *entorno) producto(t *testing.T, nombre string, precio string, stock int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:    nombre,
		Categoria: "bebidas",
		Precio:    decimal.RequireFromString(precio),
		Stock:     stock,
		Activo:    true,
	}
	require.NoError(t, e.productosDB.Create(context.Background(), p))
	return p
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// requireDecimal compares by value; SQLite hands decimals back through REAL.
func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Equal(t, want, got.StringFixed(2))
}
