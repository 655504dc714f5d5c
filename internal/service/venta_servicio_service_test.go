package service

import (
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

func TestVenta_MezclaDeLineas(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	agua := e.producto(t, "Agua", "0.60", 10)

	venta, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{Items: []dto.ItemVentaRequest{
		{ProductoID: agua.ID.String(), Cantidad: 3},
		{TipoEspecial: model.ItemBano, Personas: 2},
		{TipoEspecial: model.ItemHotel, Habitacion: " 204 ", Monto: dec("15.00")},
	}})
	require.NoError(t, err)

	requireDecimal(t, "17.30", venta.Total)
	assert.Equal(t, model.MetodoEfectivo, venta.MetodoPago)
	require.Len(t, venta.Items, 3)
	assert.Equal(t, model.ItemProducto, venta.Items[0].Tipo)
	requireDecimal(t, "1.80", venta.Items[0].Subtotal)
	assert.Equal(t, model.ItemBano, venta.Items[1].Tipo)
	requireDecimal(t, "0.50", venta.Items[1].Subtotal)
	require.NotNil(t, venta.Items[2].Habitacion)
	assert.Equal(t, "204", *venta.Items[2].Habitacion)
	assert.Nil(t, venta.Items[1].ProductoID)

	p, err := e.productosDB.FindByID(ctx, agua.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	movs, err := e.productos.ListarMovimientos(ctx, agua.ID, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "venta", movs[0].Tipo)
	assert.Equal(t, -3, movs[0].Cantidad)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 7, movs[0].StockNuevo)
	require.NotNil(t, movs[0].ReferenciaID)
	assert.Equal(t, venta.ID, *movs[0].ReferenciaID)

	got, err := e.ventas.ObtenerVenta(ctx, uuid.MustParse(venta.ID))
	require.NoError(t, err)
	assert.Len(t, got.Items, 3)
}

func TestVenta_StockInsuficienteRevierteTodo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	agua := e.producto(t, "Agua", "0.60", 5)
	cola := e.producto(t, "Cola", "1.00", 1)

	_, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{Items: []dto.ItemVentaRequest{
		{ProductoID: agua.ID.String(), Cantidad: 2},
		{ProductoID: cola.ID.String(), Cantidad: 2},
	}})
	require.ErrorIs(t, err, apierror.ErrValidation)

	p, err := e.productosDB.FindByID(ctx, agua.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	movs, err := e.productos.ListarMovimientos(ctx, agua.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)

	ventas, err := e.ventas.ListarVentas(ctx, dto.VentaServicioFilter{})
	require.NoError(t, err)
	assert.Empty(t, ventas)
}

func TestVenta_LineasInvalidas(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	agua := e.producto(t, "Agua", "0.60", 5)

	cases := map[string][]dto.ItemVentaRequest{
		"sin items":         nil,
		"producto sin id":   {{Cantidad: 1}},
		"id malformado":     {{ProductoID: "x", Cantidad: 1}},
		"cantidad cero":     {{ProductoID: agua.ID.String()}},
		"bano sin personas": {{TipoEspecial: model.ItemBano}},
		"hotel sin cuarto":  {{TipoEspecial: model.ItemHotel, Monto: dec("5")}},
		"hotel monto cero":  {{TipoEspecial: model.ItemHotel, Habitacion: "101"}},
		"tipo desconocido":  {{TipoEspecial: "spa"}},
	}
	for nombre, items := range cases {
		_, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{Items: items})
		assert.ErrorIs(t, err, apierror.ErrValidation, nombre)
	}

	_, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{Items: []dto.ItemVentaRequest{
		{ProductoID: uuid.NewString(), Cantidad: 1},
	}})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestVenta_ProductoInactivoNoSeVende(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	agua := e.producto(t, "Agua", "0.60", 5)
	require.NoError(t, e.productos.Desactivar(ctx, agua.ID))

	_, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{Items: []dto.ItemVentaRequest{
		{ProductoID: agua.ID.String(), Cantidad: 1},
	}})
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestVenta_BanoUsaCantidadSiFaltanPersonas(t *testing.T) {
	l, err := LineaDesdeRequest(dto.ItemVentaRequest{TipoEspecial: model.ItemBano, Cantidad: 3})
	require.NoError(t, err)
	assert.Equal(t, LineaBano{Personas: 3}, l)
}

func TestVenta_TarjetaNoSumaACaja(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	abrir(t, e, "20.00")
	e.reloj.avanzar(time.Minute)

	_, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{
		Items:      []dto.ItemVentaRequest{{TipoEspecial: model.ItemHotel, Habitacion: "301", Monto: dec("40.00")}},
		MetodoPago: model.MetodoTarjeta,
	})
	require.NoError(t, err)
	_, err = e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{
		Items: []dto.ItemVentaRequest{{TipoEspecial: model.ItemBano, Personas: 4}},
	})
	require.NoError(t, err)

	estado, err := e.caja.ObtenerEstado(ctx)
	require.NoError(t, err)
	requireDecimal(t, "1.00", estado.TotalDiaServicios)
	requireDecimal(t, "40.00", estado.TotalDiaServiciosTarjeta)
	requireDecimal(t, "21.00", estado.SaldoActual)

	movs, err := e.caja.ObtenerMovimientos(ctx)
	require.NoError(t, err)
	require.Len(t, movs.Movimientos, 2)
	assert.Equal(t, "servicio", movs.Movimientos[0].Tipo)
}

func TestVenta_ReporteDiarioPorCategoria(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	agua := e.producto(t, "Agua", "0.60", 10)

	_, err := e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{Items: []dto.ItemVentaRequest{
		{ProductoID: agua.ID.String(), Cantidad: 2},
		{TipoEspecial: model.ItemBano, Personas: 1},
	}})
	require.NoError(t, err)
	e.reloj.avanzar(time.Hour)
	_, err = e.ventas.CrearVenta(ctx, dto.CrearVentaServicioRequest{
		Items:      []dto.ItemVentaRequest{{TipoEspecial: model.ItemHotel, Habitacion: "101", Monto: dec("12.00")}},
		MetodoPago: model.MetodoTarjeta,
	})
	require.NoError(t, err)

	r, err := e.ventas.ReporteDiario(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", r.Fecha)
	assert.Equal(t, 2, r.TotalVentas)
	requireDecimal(t, "13.45", r.TotalIngresos)
	requireDecimal(t, "1.45", r.TotalEfectivo)
	requireDecimal(t, "12.00", r.TotalTarjeta)
	assert.Equal(t, 2, r.PorCategoria["bebidas"].Cantidad)
	requireDecimal(t, "1.20", r.PorCategoria["bebidas"].Total)
	requireDecimal(t, "12.00", r.PorCategoria["hotel"].Total)

	vacio, err := e.ventas.ReporteDiario(ctx, "2026-03-09")
	require.NoError(t, err)
	assert.Zero(t, vacio.TotalVentas)
}
