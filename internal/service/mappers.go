package service

import (
	"strings"

	"parqueadero/internal/dto"
	"parqueadero/internal/model"
	"parqueadero/internal/tarifa"
)

func cajaToResponse(c *model.Caja) dto.CajaResponse {
	resp := dto.CajaResponse{
		ID:                     c.ID.String(),
		Estado:                 c.Estado,
		MontoInicial:           c.MontoInicial,
		FechaApertura:          c.FechaApertura,
		OperadorApertura:       c.OperadorApertura,
		NotasApertura:          c.NotasApertura,
		MontoFinal:             c.MontoFinal,
		FechaCierre:            c.FechaCierre,
		OperadorCierre:         c.OperadorCierre,
		NotasCierre:            c.NotasCierre,
		TotalParqueo:           c.TotalParqueo,
		TotalServicios:         c.TotalServicios,
		TotalManuales:          c.TotalManuales,
		TotalEgresos:           c.TotalEgresos,
		TotalIngresos:          c.TotalIngresos,
		MontoEsperado:          c.MontoEsperado,
		Diferencia:             c.Diferencia,
		DenominacionesApertura: []dto.DenominacionResponse{},
		DenominacionesCierre:   []dto.DenominacionResponse{},
	}
	for _, d := range c.Denominaciones {
		r := dto.DenominacionResponse{Denominacion: d.Denominacion, Cantidad: d.Cantidad, Subtotal: d.Subtotal}
		if d.TipoConteo == model.ConteoCierre {
			resp.DenominacionesCierre = append(resp.DenominacionesCierre, r)
		} else {
			resp.DenominacionesApertura = append(resp.DenominacionesApertura, r)
		}
	}
	return resp
}

func vehiculoToResponse(v *model.VehiculoEstacionado) dto.VehiculoResponse {
	return dto.VehiculoResponse{
		ID:               v.ID.String(),
		Placa:            v.Placa,
		EspacioNumero:    v.EspacioNumero,
		FechaHoraEntrada: v.FechaHoraEntrada,
		FechaHoraSalida:  v.FechaHoraSalida,
		CostoTotal:       v.CostoTotal,
		Estado:           v.Estado,
		EsNocturno:       v.EsNocturno,
		EsNoPagado:       v.EsNoPagado,
	}
}

func facturaToResponse(f *model.HistorialFactura) dto.FacturaResponse {
	return dto.FacturaResponse{
		ID:                 f.ID.String(),
		VehiculoID:         f.VehiculoID.String(),
		Placa:              f.Placa,
		EspacioNumero:      f.EspacioNumero,
		FechaHoraEntrada:   f.FechaHoraEntrada,
		FechaHoraSalida:    f.FechaHoraSalida,
		TiempoTotalMinutos: f.TiempoTotalMinutos,
		TiempoFormateado:   tarifa.FormatearTiempo(f.TiempoTotalMinutos),
		CostoTotal:         f.CostoTotal,
		DetallesCobro:      f.DetallesCobro,
		EsNocturno:         f.EsNocturno,
		EsNoPagado:         f.EsNoPagado,
		MetodoPago:         f.MetodoPago,
		FechaGeneracion:    f.FechaGeneracion,
	}
}

func facturasToResponse(fs []model.HistorialFactura) []dto.FacturaResponse {
	out := make([]dto.FacturaResponse, 0, len(fs))
	for i := range fs {
		out = append(out, facturaToResponse(&fs[i]))
	}
	return out
}

func configuracionToResponse(c *model.ConfiguracionPrecios) dto.ConfiguracionResponse {
	rangos := []tarifa.Rango(c.RangosPersonalizados)
	if rangos == nil {
		rangos = []tarifa.Rango{}
	}
	return dto.ConfiguracionResponse{
		ID:                   c.ID.String(),
		Precio0a5Min:         c.Precio0a5Min,
		Precio6a30Min:        c.Precio6a30Min,
		Precio31a60Min:       c.Precio31a60Min,
		PrecioHoraAdicional:  c.PrecioHoraAdicional,
		PrecioNocturno:       c.PrecioNocturno,
		HoraInicioNocturno:   c.HoraInicioNocturno,
		HoraFinNocturno:      c.HoraFinNocturno,
		RangosPersonalizados: rangos,
		UpdatedAt:            c.UpdatedAt,
	}
}

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Categoria: p.Categoria,
		Precio:    p.Precio,
		Stock:     p.Stock,
		Activo:    p.Activo,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func movimientoStockToResponse(m *model.MovimientoStock) dto.MovimientoStockResponse {
	var ref *string
	if m.ReferenciaID != nil {
		id := m.ReferenciaID.String()
		ref = &id
	}
	return dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		ReferenciaID:  ref,
		CreatedAt:     m.CreatedAt,
	}
}

func ventaToResponse(v *model.VentaServicio) dto.VentaServicioResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, it := range v.Items {
		var productoID *string
		if it.ProductoID != nil {
			id := it.ProductoID.String()
			productoID = &id
		}
		items = append(items, dto.ItemVentaResponse{
			Tipo:           it.Tipo,
			ProductoID:     productoID,
			NombreProducto: it.NombreProducto,
			Categoria:      it.Categoria,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
			Habitacion:     it.Habitacion,
		})
	}
	return dto.VentaServicioResponse{
		ID:         v.ID.String(),
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Fecha:      v.Fecha,
		Items:      items,
	}
}

// describirVenta summarizes a sale's items on one line for the movements list.
func describirVenta(v model.VentaServicio) string {
	if len(v.Items) == 0 {
		return "Venta de servicios"
	}
	nombres := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		nombres = append(nombres, it.NombreProducto)
	}
	return strings.Join(nombres, ", ")
}
