package service

import (
	"context"
	"fmt"
	"time"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaServicioService interface {
	CrearVenta(ctx context.Context, req dto.CrearVentaServicioRequest) (*dto.VentaServicioResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaServicioResponse, error)
	ListarVentas(ctx context.Context, filter dto.VentaServicioFilter) ([]dto.VentaServicioResponse, error)
	ReporteDiario(ctx context.Context, fecha string) (*dto.ReporteServiciosResponse, error)
}

type ventaServicioService struct {
	ventas      repository.VentaServicioRepository
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	precioBano  decimal.Decimal
	now         func() time.Time
}

func NewVentaServicioService(
	ventas repository.VentaServicioRepository,
	productos repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	precioBano decimal.Decimal,
) VentaServicioService {
	return &ventaServicioService{
		ventas:      ventas,
		productos:   productos,
		movimientos: movimientos,
		precioBano:  precioBano,
		now:         time.Now,
	}
}

// ── CrearVenta ────────────────────────────────────────────────────────────────
// One transaction: price every line, take product units from stock (row
// locked), record the stock movement and insert the sale with its items. Any
// failing line rolls the whole sale back.

func (s *ventaServicioService) CrearVenta(ctx context.Context, req dto.CrearVentaServicioRequest) (*dto.VentaServicioResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validation("la venta debe tener al menos un item")
	}
	lineas := make([]LineaVenta, 0, len(req.Items))
	for _, it := range req.Items {
		l, err := LineaDesdeRequest(it)
		if err != nil {
			return nil, err
		}
		lineas = append(lineas, l)
	}
	metodo := req.MetodoPago
	if metodo == "" {
		metodo = model.MetodoEfectivo
	}

	venta := &model.VentaServicio{
		ID:         uuid.New(),
		MetodoPago: metodo,
		Fecha:      s.now(),
	}
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		productos := s.productos.WithTx(tx)
		movimientos := s.movimientos.WithTx(tx)

		total := decimal.Zero
		for _, linea := range lineas {
			var item model.ItemVentaServicio
			switch l := linea.(type) {
			case LineaProducto:
				p, err := productos.LockByID(ctx, l.ProductoID)
				if esNoEncontrado(err) {
					return apierror.NotFound("producto %s no encontrado", l.ProductoID)
				}
				if err != nil {
					return err
				}
				if !p.Activo {
					return apierror.Validation("el producto %s no esta disponible", p.Nombre)
				}
				if p.Stock < l.Cantidad {
					return apierror.Validation("stock insuficiente para %s: disponible %d, solicitado %d", p.Nombre, p.Stock, l.Cantidad)
				}
				nuevo := p.Stock - l.Cantidad
				if err := productos.SetStock(ctx, p.ID, nuevo); err != nil {
					return err
				}
				if err := movimientos.Create(ctx, &model.MovimientoStock{
					ProductoID:    p.ID,
					Tipo:          "venta",
					Cantidad:      -l.Cantidad,
					StockAnterior: p.Stock,
					StockNuevo:    nuevo,
					Motivo:        "venta de servicios",
					ReferenciaID:  &venta.ID,
				}); err != nil {
					return err
				}
				productoID := p.ID
				item = model.ItemVentaServicio{
					Tipo:           model.ItemProducto,
					ProductoID:     &productoID,
					NombreProducto: p.Nombre,
					Categoria:      p.Categoria,
					Cantidad:       l.Cantidad,
					PrecioUnitario: p.Precio,
					Subtotal:       p.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad))),
				}

			case LineaBano:
				item = model.ItemVentaServicio{
					Tipo:           model.ItemBano,
					NombreProducto: "Uso de bano",
					Categoria:      "servicio",
					Cantidad:       l.Personas,
					PrecioUnitario: s.precioBano,
					Subtotal:       s.precioBano.Mul(decimal.NewFromInt(int64(l.Personas))),
				}

			case LineaHotel:
				hab := l.Habitacion
				item = model.ItemVentaServicio{
					Tipo:           model.ItemHotel,
					NombreProducto: fmt.Sprintf("Cargo habitacion %s", hab),
					Categoria:      "hotel",
					Cantidad:       1,
					PrecioUnitario: l.Monto,
					Subtotal:       l.Monto,
					Habitacion:     &hab,
				}

			default:
				return fmt.Errorf("linea de venta desconocida: %T", linea)
			}
			total = total.Add(item.Subtotal)
			venta.Items = append(venta.Items, item)
		}

		venta.Total = total.Round(2)
		return s.ventas.WithTx(tx).Create(ctx, venta)
	})
	if err != nil {
		return nil, err
	}

	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaServicioService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaServicioResponse, error) {
	v, err := s.ventas.FindByID(ctx, id)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("venta %s no encontrada", id)
	}
	if err != nil {
		return nil, err
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

func (s *ventaServicioService) ListarVentas(ctx context.Context, filter dto.VentaServicioFilter) ([]dto.VentaServicioResponse, error) {
	var desde, hasta time.Time
	if filter.Fecha != "" {
		var err error
		if desde, hasta, err = rangoDia(filter.Fecha, s.now()); err != nil {
			return nil, err
		}
	}
	ventas, err := s.ventas.List(ctx, desde, hasta, filter.Limite)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaServicioResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, ventaToResponse(&ventas[i]))
	}
	return out, nil
}

func (s *ventaServicioService) ReporteDiario(ctx context.Context, fecha string) (*dto.ReporteServiciosResponse, error) {
	desde, hasta, err := rangoDia(fecha, s.now())
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventas.List(ctx, desde, hasta, 0)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteServiciosResponse{
		Fecha:         desde.Format("2006-01-02"),
		TotalVentas:   len(ventas),
		TotalIngresos: decimal.Zero,
		TotalEfectivo: decimal.Zero,
		TotalTarjeta:  decimal.Zero,
		PorCategoria:  map[string]dto.ResumenCategoria{},
	}
	for _, v := range ventas {
		resp.TotalIngresos = resp.TotalIngresos.Add(v.Total)
		if v.MetodoPago == model.MetodoTarjeta {
			resp.TotalTarjeta = resp.TotalTarjeta.Add(v.Total)
		} else {
			resp.TotalEfectivo = resp.TotalEfectivo.Add(v.Total)
		}
		for _, it := range v.Items {
			c := resp.PorCategoria[it.Categoria]
			c.Cantidad += it.Cantidad
			c.Total = c.Total.Add(it.Subtotal)
			resp.PorCategoria[it.Categoria] = c
		}
	}
	return resp, nil
}
