package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"parqueadero/internal/dto"
	"parqueadero/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportesFalsos struct {
	service.ReporteService
	err error
}

func (r *reportesFalsos) Diario(_ context.Context, fecha string) (*dto.ReporteDiarioResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &dto.ReporteDiarioResponse{
		Fecha:              fecha,
		TotalVehiculos:     3,
		VehiculosSalieron:  2,
		VehiculosNoPagados: 1,
		TotalIngresos:      decimal.RequireFromString("3.00"),
		TotalEfectivo:      decimal.RequireFromString("1.00"),
		TotalTarjeta:       decimal.RequireFromString("2.00"),
		TiempoPromedio:     "1h 22m",
	}, nil
}

func (r *reportesFalsos) ExportarFacturas(_ context.Context, _ string, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

type ventasFalsas struct {
	service.VentaServicioService
}

func (ventasFalsas) ReporteDiario(_ context.Context, fecha string) (*dto.ReporteServiciosResponse, error) {
	return &dto.ReporteServiciosResponse{Fecha: fecha, TotalVentas: 4, TotalIngresos: decimal.RequireFromString("13.45")}, nil
}

func TestReporteWorker_EnviaResumenConAdjunto(t *testing.T) {
	mailer := &mailerEspia{habilitado: true}
	w := NewReporteWorker(&reportesFalsos{}, ventasFalsas{}, mailer, "Hotel Central", "duenio@hotel.test")

	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"fecha":"2026-03-10"}`)))

	require.Len(t, mailer.envios, 1)
	e := mailer.envios[0]
	assert.Equal(t, "Hotel Central - Reporte diario 2026-03-10", e.asunto)
	assert.Contains(t, e.cuerpo, "Vehiculos cobrados: 2 (no pagados: 1)")
	assert.Contains(t, e.cuerpo, "Parqueo: $3.00 (efectivo $1.00, tarjeta $2.00)")
	assert.Contains(t, e.cuerpo, "Servicios: 4 ventas, $13.45")
	assert.Empty(t, e.archivos)
	require.Len(t, e.adjuntos, 1)
	assert.Equal(t, "facturas_2026-03-10.xlsx", e.adjuntos[0].Nombre)
	assert.Equal(t, mimeXLSX, e.adjuntos[0].Tipo)
	assert.Equal(t, []byte("xlsx"), e.adjuntos[0].Contenido)
}

func TestReporteWorker_DeshabilitadoNoConsulta(t *testing.T) {
	mailer := &mailerEspia{}
	// Diario would fail if it were called.
	w := NewReporteWorker(&reportesFalsos{err: errors.New("no deberia llamarse")}, ventasFalsas{}, mailer, "Hotel Central", "duenio@hotel.test")

	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"fecha":"2026-03-10"}`)))
	assert.Empty(t, mailer.envios)
}

func TestReporteWorker_Errores(t *testing.T) {
	mailer := &mailerEspia{habilitado: true}
	w := NewReporteWorker(&reportesFalsos{err: errors.New("db caida")}, ventasFalsas{}, mailer, "Hotel Central", "duenio@hotel.test")

	assert.Error(t, w.Process(context.Background(), json.RawMessage(`[]`)))
	assert.ErrorContains(t, w.Process(context.Background(), json.RawMessage(`{"fecha":"2026-03-10"}`)), "db caida")
	assert.Empty(t, mailer.envios)
}
