package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/infra"
	"parqueadero/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type cacheMemoria struct {
	datos map[string][]byte
	sets  int
}

func (c *cacheMemoria) Get(_ context.Context, key string, dest any) error {
	raw, ok := c.datos[key]
	if !ok {
		return infra.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheMemoria) Set(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.datos[key] = raw
	c.sets++
	return nil
}

// jornada replays one day at the lot:
//
//	08:00 AAA111 enters space 1, leaves 08:45 paying cash
//	09:00 BBB222 enters space 2, leaves 11:00 paying by card
//	09:10 CCC333 enters space 1, leaves 09:40 without paying
//	21:00 NOC444 enters space 3 and is still parked
func jornada(t *testing.T, e *entorno) {
	t.Helper()
	ctx := context.Background()
	en := func(hh, mm int) { e.reloj.t = time.Date(2026, 3, 10, hh, mm, 0, 0, time.UTC) }
	salir := func(req dto.SalidaRequest) {
		_, err := e.vehiculos.RegistrarSalida(ctx, req)
		require.NoError(t, err)
	}

	en(8, 0)
	entrar(t, e, "AAA111", 1)
	en(8, 45)
	salir(dto.SalidaRequest{Placa: "AAA111", MetodoPago: model.MetodoEfectivo})
	en(9, 0)
	entrar(t, e, "BBB222", 2)
	en(9, 10)
	entrar(t, e, "CCC333", 1)
	en(9, 40)
	salir(dto.SalidaRequest{Placa: "CCC333", EsNoPagado: true})
	en(11, 0)
	salir(dto.SalidaRequest{Placa: "BBB222", MetodoPago: model.MetodoTarjeta})
	en(21, 0)
	entrar(t, e, "NOC444", 3)
}

func TestReporte_Diario(t *testing.T) {
	e := nuevoEntorno(t)
	jornada(t, e)

	r, err := e.reportes.Diario(context.Background(), "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", r.Fecha)
	assert.EqualValues(t, 3, r.TotalVehiculos)
	assert.Equal(t, 2, r.VehiculosSalieron)
	assert.Equal(t, 1, r.VehiculosNoPagados)
	requireDecimal(t, "3.00", r.TotalIngresos)
	requireDecimal(t, "1.00", r.TotalEfectivo)
	requireDecimal(t, "2.00", r.TotalTarjeta)
	assert.Equal(t, 2, r.Diurnos)
	assert.Equal(t, 0, r.Nocturnos)
	assert.Equal(t, 82, r.PromedioMinutos)
	requireDecimal(t, "1.50", r.TicketPromedio)
}

func TestReporte_DiarioSinMovimiento(t *testing.T) {
	e := nuevoEntorno(t)

	r, err := e.reportes.Diario(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", r.Fecha)
	assert.Zero(t, r.TotalVehiculos)
	assert.True(t, r.TicketPromedio.IsZero())

	_, err = e.reportes.Diario(context.Background(), "2026-13-01")
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestReporte_Detallado(t *testing.T) {
	e := nuevoEntorno(t)
	jornada(t, e)

	r, err := e.reportes.Detallado(context.Background(), "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, 2, r.VehiculosDiurnos)
	assert.Equal(t, 0, r.VehiculosNocturnos)
	requireDecimal(t, "3.00", r.IngresosDiurnos)
	requireDecimal(t, "0.00", r.IngresosNocturnos)
	assert.Equal(t, []dto.HoraConteo{{Hora: "08:00", Cantidad: 1}, {Hora: "09:00", Cantidad: 1}}, r.HorasPico)
	assert.Equal(t, []dto.EspacioConteo{{Espacio: 1, Usos: 1}, {Espacio: 2, Usos: 1}}, r.EspaciosMasUsados)
	assert.Equal(t, 1, r.DistribucionTiempo["menos_1h"])
	assert.Equal(t, 1, r.DistribucionTiempo["entre_1h_3h"])
	assert.Equal(t, 0, r.DistribucionTiempo["mas_6h"])

	np := r.EstadisticasNoPagos
	assert.Equal(t, 1, np.Total)
	assert.Equal(t, 1, np.Diurnos)
	requireDecimal(t, "0.75", np.PerdidaEstimada)
}

func TestReporte_NoPagados(t *testing.T) {
	e := nuevoEntorno(t)
	jornada(t, e)

	r, err := e.reportes.NoPagados(context.Background(), "2026-03-10")
	require.NoError(t, err)

	assert.Equal(t, 1, r.Total)
	requireDecimal(t, "0.75", r.PerdidaEstimada)
	assert.Equal(t, 1, r.Normales.Cantidad)
	assert.Equal(t, 0, r.Nocturnos.Cantidad)
	require.Len(t, r.Vehiculos, 1)
	assert.Equal(t, "CCC333", r.Vehiculos[0].Placa)
	assert.Equal(t, 30, r.Vehiculos[0].TiempoMinutos)
	requireDecimal(t, "0.75", r.Vehiculos[0].CostoNoCobrado)
}

func TestReporte_ExportarFacturas(t *testing.T) {
	e := nuevoEntorno(t)
	jornada(t, e)

	var buf bytes.Buffer
	require.NoError(t, e.reportes.ExportarFacturas(context.Background(), "2026-03-10", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Facturas 2026-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Placa", rows[0][0])
	assert.Equal(t, []string{"AAA111", "CCC333", "BBB222"}, []string{rows[1][0], rows[2][0], rows[3][0]})
	assert.Equal(t, "SI", rows[2][8])
}

func TestReporte_DiaCerradoSeCachea(t *testing.T) {
	e := nuevoEntorno(t)
	cache := &cacheMemoria{datos: map[string][]byte{}}
	e.reportes.cache = cache
	jornada(t, e)
	ctx := context.Background()

	// Same day: always rebuilt.
	_, err := e.reportes.Diario(ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Zero(t, cache.sets)

	e.reloj.t = time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	primero, err := e.reportes.Diario(ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.datos, "reporte:diario:2026-03-10")

	e.reloj.t = time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	e.factura(t, "TAR999", "5.00", model.MetodoEfectivo, false)
	e.reloj.t = time.Date(2026, 3, 11, 9, 5, 0, 0, time.UTC)

	segundo, err := e.reportes.Diario(ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	requireDecimal(t, primero.TotalIngresos.StringFixed(2), segundo.TotalIngresos)
}
