package service

import (
	"bytes"
	"context"
	"time"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/infra"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"
	"parqueadero/internal/tarifa"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const detalleNoPagado = "VEHICULO NO PAGADO - Costo no cobrado"

// VehiculoOpciones are the lot-level policies read from config.
type VehiculoOpciones struct {
	TotalEspacios int
	// BloquearNoPagados refuses entry to plates with an unpaid exit on record.
	BloquearNoPagados bool
	NombreNegocio     string
}

type VehiculoService interface {
	ObtenerEspacios(ctx context.Context) (*dto.EspaciosResponse, error)
	RegistrarEntrada(ctx context.Context, req dto.EntradaRequest) (*dto.VehiculoResponse, error)
	RegistrarSalida(ctx context.Context, req dto.SalidaRequest) (*dto.SalidaResponse, error)
	BuscarVehiculo(ctx context.Context, placa string) (*dto.BusquedaVehiculoResponse, error)
	Historial(ctx context.Context, filter dto.HistorialFilter) ([]dto.FacturaResponse, error)
	ObtenerFactura(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error)
	FacturaPDF(ctx context.Context, id uuid.UUID) ([]byte, error)
	TicketEntradaPDF(ctx context.Context, placa string) ([]byte, error)
}

type vehiculoService struct {
	vehiculos repository.VehiculoRepository
	facturas  repository.FacturaRepository
	config    ConfiguracionService
	opts      VehiculoOpciones
	now       func() time.Time
}

func NewVehiculoService(
	vehiculos repository.VehiculoRepository,
	facturas repository.FacturaRepository,
	config ConfiguracionService,
	opts VehiculoOpciones,
) VehiculoService {
	if opts.TotalEspacios <= 0 {
		opts.TotalEspacios = 24
	}
	return &vehiculoService{vehiculos: vehiculos, facturas: facturas, config: config, opts: opts, now: time.Now}
}

func (s *vehiculoService) ObtenerEspacios(ctx context.Context) (*dto.EspaciosResponse, error) {
	activos, err := s.vehiculos.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	porEspacio := make(map[int]*model.VehiculoEstacionado, len(activos))
	for i := range activos {
		porEspacio[activos[i].EspacioNumero] = &activos[i]
	}

	resp := &dto.EspaciosResponse{Total: s.opts.TotalEspacios, Espacios: make([]dto.EspacioResponse, 0, s.opts.TotalEspacios)}
	for n := 1; n <= s.opts.TotalEspacios; n++ {
		e := dto.EspacioResponse{Numero: n}
		if v, ok := porEspacio[n]; ok {
			vr := vehiculoToResponse(v)
			e.Ocupado = true
			e.Vehiculo = &vr
			resp.Ocupados++
		}
		resp.Espacios = append(resp.Espacios, e)
	}
	resp.Libres = resp.Total - resp.Ocupados
	return resp, nil
}

// ── Entrada ───────────────────────────────────────────────────────────────────

func (s *vehiculoService) RegistrarEntrada(ctx context.Context, req dto.EntradaRequest) (*dto.VehiculoResponse, error) {
	placa := normalizarPlaca(req.Placa)
	if placa == "" {
		return nil, apierror.Validation("la placa es obligatoria")
	}
	if req.EspacioNumero < 1 || req.EspacioNumero > s.opts.TotalEspacios {
		return nil, apierror.Validation("espacio %d fuera de rango (1-%d)", req.EspacioNumero, s.opts.TotalEspacios)
	}

	entrada := s.now()
	nocturno := false
	if req.EsNocturno != nil {
		nocturno = *req.EsNocturno
	} else {
		cfg, err := s.config.Vigente(ctx)
		if err != nil {
			return nil, err
		}
		nocturno = tarifa.EnHorarioNocturno(entrada, cfg.HoraInicioNocturno, cfg.HoraFinNocturno)
	}

	v := &model.VehiculoEstacionado{
		Placa:            placa,
		EspacioNumero:    req.EspacioNumero,
		FechaHoraEntrada: entrada,
		Estado:           model.EstadoVehiculoActivo,
		EsNocturno:       nocturno,
	}
	err := runTx(ctx, s.vehiculos.DB(), func(tx *gorm.DB) error {
		repo := s.vehiculos.WithTx(tx)
		if _, err := repo.FindActivoPorEspacio(ctx, req.EspacioNumero); err == nil {
			return apierror.Conflict("el espacio %d esta ocupado", req.EspacioNumero)
		} else if !esNoEncontrado(err) {
			return err
		}
		if _, err := repo.FindActivoPorPlaca(ctx, placa); err == nil {
			return apierror.Conflict("el vehiculo %s ya esta estacionado", placa)
		} else if !esNoEncontrado(err) {
			return err
		}
		if s.opts.BloquearNoPagados {
			debe, err := repo.TieneNoPagados(ctx, placa)
			if err != nil {
				return err
			}
			if debe {
				return apierror.Conflict("el vehiculo %s tiene una salida sin pago registrada", placa)
			}
		}
		if err := repo.Create(ctx, v); err != nil {
			if esDuplicado(err) {
				return apierror.Conflict("el espacio %d o la placa %s ya estan en uso", req.EspacioNumero, placa)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := vehiculoToResponse(v)
	return &resp, nil
}

// ── Salida ────────────────────────────────────────────────────────────────────
// Ends the stay and writes its invoice in one transaction. The fee uses the
// rates active at exit time.

func (s *vehiculoService) RegistrarSalida(ctx context.Context, req dto.SalidaRequest) (*dto.SalidaResponse, error) {
	placa := normalizarPlaca(req.Placa)
	if placa == "" {
		return nil, apierror.Validation("la placa es obligatoria")
	}
	metodo := req.MetodoPago
	if metodo == "" {
		metodo = model.MetodoEfectivo
	}
	if metodo != model.MetodoEfectivo && metodo != model.MetodoTarjeta {
		return nil, apierror.Validation("metodo de pago %q no soportado", metodo)
	}

	cfg, err := s.config.Vigente(ctx)
	if err != nil {
		return nil, err
	}

	var (
		vehiculo *model.VehiculoEstacionado
		factura  *model.HistorialFactura
	)
	err = runTx(ctx, s.vehiculos.DB(), func(tx *gorm.DB) error {
		repo := s.vehiculos.WithTx(tx)
		v, err := repo.FindActivoPorPlaca(ctx, placa)
		if esNoEncontrado(err) {
			return apierror.NotFound("no hay un vehiculo activo con placa %s", placa)
		}
		if err != nil {
			return err
		}

		salida := s.now()
		var cobro tarifa.Resultado
		if req.EsNoPagado {
			cobro = tarifa.Resultado{
				Costo:    decimal.Zero,
				Minutos:  tarifa.MinutosTranscurridos(v.FechaHoraEntrada, salida),
				Detalles: detalleNoPagado,
			}
		} else {
			cobro = tarifa.Calcular(v.FechaHoraEntrada, salida, cfg.Tarifas(), v.EsNocturno)
		}

		v.FechaHoraSalida = &salida
		v.CostoTotal = &cobro.Costo
		v.Estado = model.EstadoVehiculoFinalizado
		v.EsNoPagado = req.EsNoPagado
		if err := repo.Finalizar(ctx, v); err != nil {
			if esNoEncontrado(err) {
				return apierror.Conflict("la salida de %s ya fue registrada", placa)
			}
			return err
		}

		f := &model.HistorialFactura{
			VehiculoID:         v.ID,
			Placa:              v.Placa,
			EspacioNumero:      v.EspacioNumero,
			FechaHoraEntrada:   v.FechaHoraEntrada,
			FechaHoraSalida:    salida,
			TiempoTotalMinutos: cobro.Minutos,
			CostoTotal:         cobro.Costo,
			DetallesCobro:      cobro.Detalles,
			EsNocturno:         v.EsNocturno,
			EsNoPagado:         req.EsNoPagado,
			MetodoPago:         metodo,
			FechaGeneracion:    salida,
		}
		if err := s.facturas.WithTx(tx).Create(ctx, f); err != nil {
			return err
		}
		vehiculo, factura = v, f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.SalidaResponse{
		Vehiculo: vehiculoToResponse(vehiculo),
		Factura:  facturaToResponse(factura),
	}, nil
}

// BuscarVehiculo returns an active stay with the fee it would pay right now.
func (s *vehiculoService) BuscarVehiculo(ctx context.Context, placa string) (*dto.BusquedaVehiculoResponse, error) {
	placa = normalizarPlaca(placa)
	v, err := s.vehiculos.FindActivoPorPlaca(ctx, placa)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("no hay un vehiculo activo con placa %s", placa)
	}
	if err != nil {
		return nil, err
	}
	cfg, err := s.config.Vigente(ctx)
	if err != nil {
		return nil, err
	}

	cobro := tarifa.Calcular(v.FechaHoraEntrada, s.now(), cfg.Tarifas(), v.EsNocturno)
	return &dto.BusquedaVehiculoResponse{
		Vehiculo:             vehiculoToResponse(v),
		MinutosTranscurridos: cobro.Minutos,
		TiempoFormateado:     tarifa.FormatearTiempo(cobro.Minutos),
		CostoEstimado:        cobro.Costo,
		DetallesCobro:        cobro.Detalles,
	}, nil
}

func (s *vehiculoService) Historial(ctx context.Context, filter dto.HistorialFilter) ([]dto.FacturaResponse, error) {
	f := repository.FacturaFilter{Placa: normalizarPlaca(filter.Placa), Limite: filter.Limite}
	if f.Limite <= 0 {
		f.Limite = 50
	}
	if filter.Fecha != "" {
		desde, hasta, err := rangoDia(filter.Fecha, s.now())
		if err != nil {
			return nil, err
		}
		f.Desde, f.Hasta = desde, hasta
	}
	facturas, err := s.facturas.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return facturasToResponse(facturas), nil
}

func (s *vehiculoService) obtenerFactura(ctx context.Context, id uuid.UUID) (*model.HistorialFactura, error) {
	f, err := s.facturas.FindByID(ctx, id)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("factura %s no encontrada", id)
	}
	return f, err
}

func (s *vehiculoService) ObtenerFactura(ctx context.Context, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.obtenerFactura(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := facturaToResponse(f)
	return &resp, nil
}

func (s *vehiculoService) FacturaPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	f, err := s.obtenerFactura(ctx, id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.EscribirFacturaPDF(&buf, s.opts.NombreNegocio, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *vehiculoService) TicketEntradaPDF(ctx context.Context, placa string) ([]byte, error) {
	placa = normalizarPlaca(placa)
	v, err := s.vehiculos.FindActivoPorPlaca(ctx, placa)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("no hay un vehiculo activo con placa %s", placa)
	}
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.EscribirTicketEntradaPDF(&buf, s.opts.NombreNegocio, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
