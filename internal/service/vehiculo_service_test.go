package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entrar(t *testing.T, e *entorno, placa string, espacio int) *dto.VehiculoResponse {
	t.Helper()
	v, err := e.vehiculos.RegistrarEntrada(context.Background(), dto.EntradaRequest{Placa: placa, EspacioNumero: espacio})
	require.NoError(t, err)
	return v
}

func TestVehiculo_EntradaYSalidaCobraTramo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	v := entrar(t, e, " abc123 ", 3)
	assert.Equal(t, "ABC123", v.Placa)
	assert.Equal(t, model.EstadoVehiculoActivo, v.Estado)
	assert.False(t, v.EsNocturno)

	e.reloj.avanzar(45 * time.Minute)
	busq, err := e.vehiculos.BuscarVehiculo(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 45, busq.MinutosTranscurridos)
	requireDecimal(t, "1.00", busq.CostoEstimado)

	e.reloj.avanzar(30 * time.Minute)
	salida, err := e.vehiculos.RegistrarSalida(ctx, dto.SalidaRequest{Placa: "ABC123", MetodoPago: model.MetodoTarjeta})
	require.NoError(t, err)

	assert.Equal(t, model.EstadoVehiculoFinalizado, salida.Vehiculo.Estado)
	assert.Equal(t, 75, salida.Factura.TiempoTotalMinutos)
	requireDecimal(t, "1.50", salida.Factura.CostoTotal)
	assert.Equal(t, model.MetodoTarjeta, salida.Factura.MetodoPago)
	assert.Equal(t, 3, salida.Factura.EspacioNumero)
	assert.Equal(t, v.ID, salida.Factura.VehiculoID)

	espacios, err := e.vehiculos.ObtenerEspacios(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, espacios.Ocupados)
}

func TestVehiculo_NocturnoSegunVentana(t *testing.T) {
	e := nuevoEntorno(t)
	e.reloj.t = time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)

	v := entrar(t, e, "NOC001", 1)
	assert.True(t, v.EsNocturno)

	e.reloj.avanzar(9 * time.Hour)
	salida, err := e.vehiculos.RegistrarSalida(context.Background(), dto.SalidaRequest{Placa: "NOC001"})
	require.NoError(t, err)
	requireDecimal(t, "10.00", salida.Factura.CostoTotal)
	assert.True(t, salida.Factura.EsNocturno)
	assert.Equal(t, model.MetodoEfectivo, salida.Factura.MetodoPago)
}

func TestVehiculo_NocturnoExplicitoGana(t *testing.T) {
	e := nuevoEntorno(t)
	diurno := false
	v, err := e.vehiculos.RegistrarEntrada(context.Background(), dto.EntradaRequest{
		Placa: "DIA001", EspacioNumero: 2, EsNocturno: &diurno,
	})
	require.NoError(t, err)
	assert.False(t, v.EsNocturno)

	nocturno := true
	v, err = e.vehiculos.RegistrarEntrada(context.Background(), dto.EntradaRequest{
		Placa: "NOC002", EspacioNumero: 3, EsNocturno: &nocturno,
	})
	require.NoError(t, err)
	assert.True(t, v.EsNocturno)
}

func TestVehiculo_Conflictos(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	entrar(t, e, "ABC123", 1)

	_, err := e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "XYZ789", EspacioNumero: 1})
	assert.ErrorIs(t, err, apierror.ErrConflict, "espacio ocupado")

	_, err = e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "abc123", EspacioNumero: 2})
	assert.ErrorIs(t, err, apierror.ErrConflict, "placa ya estacionada")
}

func TestVehiculo_Validaciones(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "  ", EspacioNumero: 1})
	assert.ErrorIs(t, err, apierror.ErrValidation)
	_, err = e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "ABC123", EspacioNumero: 11})
	assert.ErrorIs(t, err, apierror.ErrValidation)
	_, err = e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "ABC123", EspacioNumero: 0})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	entrar(t, e, "ABC123", 1)
	_, err = e.vehiculos.RegistrarSalida(ctx, dto.SalidaRequest{Placa: "ABC123", MetodoPago: "cheque"})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestVehiculo_SalidaDesconocida(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.vehiculos.RegistrarSalida(context.Background(), dto.SalidaRequest{Placa: "NADA00"})
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	_, err = e.vehiculos.BuscarVehiculo(context.Background(), "NADA00")
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestVehiculo_NoPagadoBloqueaReingreso(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	entrar(t, e, "MOR001", 4)

	e.reloj.avanzar(2 * time.Hour)
	salida, err := e.vehiculos.RegistrarSalida(ctx, dto.SalidaRequest{Placa: "MOR001", EsNoPagado: true})
	require.NoError(t, err)
	assert.True(t, salida.Factura.EsNoPagado)
	assert.True(t, salida.Factura.CostoTotal.IsZero())
	assert.Equal(t, 120, salida.Factura.TiempoTotalMinutos)
	assert.Equal(t, detalleNoPagado, salida.Factura.DetallesCobro)

	_, err = e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "MOR001", EspacioNumero: 5})
	assert.ErrorIs(t, err, apierror.ErrConflict)

	e.vehiculos.opts.BloquearNoPagados = false
	_, err = e.vehiculos.RegistrarEntrada(ctx, dto.EntradaRequest{Placa: "MOR001", EspacioNumero: 5})
	assert.NoError(t, err)
}

func TestVehiculo_NoPagadoNoSumaACaja(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	abrir(t, e, "10.00")
	entrar(t, e, "MOR001", 4)
	e.reloj.avanzar(time.Hour)
	_, err := e.vehiculos.RegistrarSalida(ctx, dto.SalidaRequest{Placa: "MOR001", EsNoPagado: true})
	require.NoError(t, err)

	estado, err := e.caja.ObtenerEstado(ctx)
	require.NoError(t, err)
	requireDecimal(t, "10.00", estado.SaldoActual)
}

func TestVehiculo_EspaciosListaOcupados(t *testing.T) {
	e := nuevoEntorno(t)
	entrar(t, e, "AAA111", 2)
	entrar(t, e, "BBB222", 7)

	espacios, err := e.vehiculos.ObtenerEspacios(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, espacios.Total)
	assert.Equal(t, 2, espacios.Ocupados)
	assert.Equal(t, 8, espacios.Libres)
	require.Len(t, espacios.Espacios, 10)
	assert.True(t, espacios.Espacios[1].Ocupado)
	assert.Equal(t, "AAA111", espacios.Espacios[1].Vehiculo.Placa)
	assert.False(t, espacios.Espacios[0].Ocupado)
	assert.Nil(t, espacios.Espacios[0].Vehiculo)
}

func TestVehiculo_HistorialYFactura(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	entrar(t, e, "AAA111", 1)
	e.reloj.avanzar(20 * time.Minute)
	salida, err := e.vehiculos.RegistrarSalida(ctx, dto.SalidaRequest{Placa: "AAA111"})
	require.NoError(t, err)

	hist, err := e.vehiculos.Historial(ctx, dto.HistorialFilter{Fecha: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, salida.Factura.ID, hist[0].ID)

	otroDia, err := e.vehiculos.Historial(ctx, dto.HistorialFilter{Fecha: "2026-03-11"})
	require.NoError(t, err)
	assert.Empty(t, otroDia)

	_, err = e.vehiculos.Historial(ctx, dto.HistorialFilter{Fecha: "10/03/2026"})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	id := uuid.MustParse(salida.Factura.ID)
	f, err := e.vehiculos.ObtenerFactura(ctx, id)
	require.NoError(t, err)
	requireDecimal(t, "0.75", f.CostoTotal)

	pdf, err := e.vehiculos.FacturaPDF(ctx, id)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = e.vehiculos.ObtenerFactura(ctx, uuid.New())
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestVehiculo_TicketEntrada(t *testing.T) {
	e := nuevoEntorno(t)
	entrar(t, e, "TCK001", 6)

	pdf, err := e.vehiculos.TicketEntradaPDF(context.Background(), "tck001")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = e.vehiculos.TicketEntradaPDF(context.Background(), "NADA00")
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
