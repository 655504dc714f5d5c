package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"parqueadero/internal/dto"
	"parqueadero/internal/infra"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"
	"parqueadero/internal/tarifa"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// reporteCacheTTL applies only to closed days, whose figures no longer change.
const reporteCacheTTL = 7 * 24 * time.Hour

// ReporteService builds the parking reports of a day.
type ReporteService interface {
	Diario(ctx context.Context, fecha string) (*dto.ReporteDiarioResponse, error)
	Detallado(ctx context.Context, fecha string) (*dto.ReporteDetalladoResponse, error)
	NoPagados(ctx context.Context, fecha string) (*dto.ReporteNoPagadosResponse, error)
	// ExportarFacturas writes the invoices that left on fecha as an xlsx workbook.
	ExportarFacturas(ctx context.Context, fecha string, w io.Writer) error
}

type reporteService struct {
	facturas  repository.FacturaRepository
	vehiculos repository.VehiculoRepository
	config    ConfiguracionService
	cache     infra.Cache
	now       func() time.Time
}

func NewReporteService(
	facturas repository.FacturaRepository,
	vehiculos repository.VehiculoRepository,
	config ConfiguracionService,
	cache infra.Cache,
) ReporteService {
	if cache == nil {
		cache = infra.NoopCache{}
	}
	return &reporteService{
		facturas:  facturas,
		vehiculos: vehiculos,
		config:    config,
		cache:     cache,
		now:       time.Now,
	}
}

// cacheado serves a closed day from the cache, building and storing it on a miss.
// Cache failures only cost a rebuild.
func cacheado[T any](ctx context.Context, s *reporteService, tipo string, hasta time.Time, fecha string, build func() (*T, error)) (*T, error) {
	cerrado := !hasta.After(s.now())
	key := fmt.Sprintf("reporte:%s:%s", tipo, fecha)
	if cerrado {
		var hit T
		err := s.cache.Get(ctx, key, &hit)
		if err == nil {
			return &hit, nil
		}
		if !errors.Is(err, infra.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("reporte: lectura de cache fallida")
		}
	}
	out, err := build()
	if err != nil {
		return nil, err
	}
	if cerrado {
		if err := s.cache.Set(ctx, key, out, reporteCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("reporte: escritura de cache fallida")
		}
	}
	return out, nil
}

func (s *reporteService) Diario(ctx context.Context, fecha string) (*dto.ReporteDiarioResponse, error) {
	desde, hasta, err := rangoDia(fecha, s.now())
	if err != nil {
		return nil, err
	}
	dia := desde.Format("2006-01-02")
	return cacheado(ctx, s, "diario", hasta, dia, func() (*dto.ReporteDiarioResponse, error) {
		entradas, err := s.vehiculos.ContarEntradas(ctx, desde, hasta)
		if err != nil {
			return nil, err
		}
		salidas, err := s.facturas.List(ctx, repository.FacturaFilter{Desde: desde, Hasta: hasta})
		if err != nil {
			return nil, err
		}

		r := &dto.ReporteDiarioResponse{
			Fecha:          dia,
			TotalVehiculos: entradas,
			TotalIngresos:  decimal.Zero,
			TotalEfectivo:  decimal.Zero,
			TotalTarjeta:   decimal.Zero,
			TicketPromedio: decimal.Zero,
		}
		minutos := 0
		for _, f := range salidas {
			if f.EsNoPagado {
				r.VehiculosNoPagados++
				continue
			}
			r.VehiculosSalieron++
			minutos += f.TiempoTotalMinutos
			r.TotalIngresos = r.TotalIngresos.Add(f.CostoTotal)
			if f.MetodoPago == model.MetodoTarjeta {
				r.TotalTarjeta = r.TotalTarjeta.Add(f.CostoTotal)
			} else {
				r.TotalEfectivo = r.TotalEfectivo.Add(f.CostoTotal)
			}
			if f.EsNocturno {
				r.Nocturnos++
			} else {
				r.Diurnos++
			}
		}
		if r.VehiculosSalieron > 0 {
			r.PromedioMinutos = minutos / r.VehiculosSalieron
			r.TicketPromedio = r.TotalIngresos.Div(decimal.NewFromInt(int64(r.VehiculosSalieron))).Round(2)
		}
		r.TiempoPromedio = tarifa.FormatearTiempo(r.PromedioMinutos)
		return r, nil
	})
}

func (s *reporteService) Detallado(ctx context.Context, fecha string) (*dto.ReporteDetalladoResponse, error) {
	desde, hasta, err := rangoDia(fecha, s.now())
	if err != nil {
		return nil, err
	}
	dia := desde.Format("2006-01-02")
	return cacheado(ctx, s, "detallado", hasta, dia, func() (*dto.ReporteDetalladoResponse, error) {
		entraron, err := s.facturas.List(ctx, repository.FacturaFilter{PorEntrada: true, Desde: desde, Hasta: hasta})
		if err != nil {
			return nil, err
		}
		salieron, err := s.facturas.List(ctx, repository.FacturaFilter{Desde: desde, Hasta: hasta})
		if err != nil {
			return nil, err
		}
		tarifas, err := s.tarifasVigentes(ctx)
		if err != nil {
			return nil, err
		}

		r := &dto.ReporteDetalladoResponse{
			Fecha:             dia,
			IngresosNocturnos: decimal.Zero,
			IngresosDiurnos:   decimal.Zero,
			HorasPico:         []dto.HoraConteo{},
			EspaciosMasUsados: []dto.EspacioConteo{},
			DistribucionTiempo: map[string]int{
				"menos_1h":    0,
				"entre_1h_3h": 0,
				"entre_3h_6h": 0,
				"mas_6h":      0,
				"nocturnos":   0,
			},
			EstadisticasNoPagos: dto.EstadisticasNoPagados{PerdidaEstimada: decimal.Zero},
		}

		horas := map[string]int{}
		espacios := map[int]int{}
		for i := range entraron {
			f := &entraron[i]
			if f.EsNoPagado {
				np := &r.EstadisticasNoPagos
				np.Total++
				if f.EsNocturno {
					np.Nocturnos++
				} else {
					np.Diurnos++
				}
				np.PerdidaEstimada = np.PerdidaEstimada.Add(costoNoCobrado(f, tarifas))
				continue
			}
			if f.EsNocturno {
				r.VehiculosNocturnos++
			} else {
				r.VehiculosDiurnos++
			}
			horas[f.FechaHoraEntrada.In(desde.Location()).Format("15:00")]++
			espacios[f.EspacioNumero]++
		}

		for _, f := range salieron {
			if f.EsNoPagado {
				continue
			}
			if f.EsNocturno {
				r.IngresosNocturnos = r.IngresosNocturnos.Add(f.CostoTotal)
				r.DistribucionTiempo["nocturnos"]++
				continue
			}
			r.IngresosDiurnos = r.IngresosDiurnos.Add(f.CostoTotal)
			switch m := f.TiempoTotalMinutos; {
			case m < 60:
				r.DistribucionTiempo["menos_1h"]++
			case m < 180:
				r.DistribucionTiempo["entre_1h_3h"]++
			case m < 360:
				r.DistribucionTiempo["entre_3h_6h"]++
			default:
				r.DistribucionTiempo["mas_6h"]++
			}
		}

		for h, n := range horas {
			r.HorasPico = append(r.HorasPico, dto.HoraConteo{Hora: h, Cantidad: n})
		}
		sort.Slice(r.HorasPico, func(i, j int) bool { return r.HorasPico[i].Hora < r.HorasPico[j].Hora })

		for e, n := range espacios {
			r.EspaciosMasUsados = append(r.EspaciosMasUsados, dto.EspacioConteo{Espacio: e, Usos: n})
		}
		sort.Slice(r.EspaciosMasUsados, func(i, j int) bool {
			a, b := r.EspaciosMasUsados[i], r.EspaciosMasUsados[j]
			if a.Usos != b.Usos {
				return a.Usos > b.Usos
			}
			return a.Espacio < b.Espacio
		})
		if len(r.EspaciosMasUsados) > 10 {
			r.EspaciosMasUsados = r.EspaciosMasUsados[:10]
		}
		return r, nil
	})
}

func (s *reporteService) NoPagados(ctx context.Context, fecha string) (*dto.ReporteNoPagadosResponse, error) {
	desde, hasta, err := rangoDia(fecha, s.now())
	if err != nil {
		return nil, err
	}
	facturas, err := s.facturas.List(ctx, repository.FacturaFilter{Desde: desde, Hasta: hasta, SoloNoPagado: true})
	if err != nil {
		return nil, err
	}
	tarifas, err := s.tarifasVigentes(ctx)
	if err != nil {
		return nil, err
	}

	r := &dto.ReporteNoPagadosResponse{
		Fecha:           desde.Format("2006-01-02"),
		Total:           len(facturas),
		PerdidaEstimada: decimal.Zero,
		Nocturnos:       dto.GrupoNoPagados{Perdida: decimal.Zero},
		Normales:        dto.GrupoNoPagados{Perdida: decimal.Zero},
		Vehiculos:       make([]dto.VehiculoNoPagado, 0, len(facturas)),
	}
	for i := range facturas {
		f := &facturas[i]
		costo := costoNoCobrado(f, tarifas)
		grupo := &r.Normales
		if f.EsNocturno {
			grupo = &r.Nocturnos
		}
		grupo.Cantidad++
		grupo.Perdida = grupo.Perdida.Add(costo)
		r.PerdidaEstimada = r.PerdidaEstimada.Add(costo)
		r.Vehiculos = append(r.Vehiculos, dto.VehiculoNoPagado{
			Placa:          f.Placa,
			Espacio:        f.EspacioNumero,
			Entrada:        f.FechaHoraEntrada,
			Salida:         f.FechaHoraSalida,
			TiempoMinutos:  f.TiempoTotalMinutos,
			EsNocturno:     f.EsNocturno,
			CostoNoCobrado: costo,
		})
	}
	return r, nil
}

func (s *reporteService) ExportarFacturas(ctx context.Context, fecha string, w io.Writer) error {
	desde, hasta, err := rangoDia(fecha, s.now())
	if err != nil {
		return err
	}
	facturas, err := s.facturas.List(ctx, repository.FacturaFilter{Desde: desde, Hasta: hasta})
	if err != nil {
		return err
	}
	// Oldest first reads better in a spreadsheet.
	sort.SliceStable(facturas, func(i, j int) bool {
		return facturas[i].FechaHoraSalida.Before(facturas[j].FechaHoraSalida)
	})
	return infra.EscribirFacturasXLSX(w, desde.Format("2006-01-02"), facturas)
}

func (s *reporteService) tarifasVigentes(ctx context.Context) (tarifa.Tarifas, error) {
	cfg, err := s.config.Vigente(ctx)
	if err != nil {
		return tarifa.Tarifas{}, err
	}
	return cfg.Tarifas(), nil
}

// costoNoCobrado prices an unpaid stay with the given rates.
func costoNoCobrado(f *model.HistorialFactura, t tarifa.Tarifas) decimal.Decimal {
	return tarifa.Calcular(f.FechaHoraEntrada, f.FechaHoraSalida, t, f.EsNocturno).Costo
}
