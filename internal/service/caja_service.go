package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"parqueadero/internal/apierror"
	"parqueadero/internal/dto"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"
	"parqueadero/internal/tarifa"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CierreNotifier is told about every closed drawer so the closing report can
// be rendered and mailed out of band.
type CierreNotifier interface {
	NotificarCierre(ctx context.Context, cajaID uuid.UUID) error
}

type CajaService interface {
	Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CajaResponse, error)
	RegistrarEgreso(ctx context.Context, req dto.EgresoRequest) (*dto.EgresoResponse, error)
	AgregarEfectivo(ctx context.Context, req dto.AgregarEfectivoRequest) (*dto.MovimientoManualResponse, error)
	ObtenerEstado(ctx context.Context) (*dto.CajaEstadoResponse, error)
	ObtenerMovimientos(ctx context.Context) (*dto.MovimientosCajaResponse, error)
	ObtenerResumen(ctx context.Context) (*dto.ResumenCajaResponse, error)
	Historial(ctx context.Context, limite int) ([]dto.CajaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error)
}

type cajaService struct {
	cajas    repository.CajaRepository
	ingresos repository.IngresosRepository
	notifier CierreNotifier // optional
	now      func() time.Time
}

func NewCajaService(cajas repository.CajaRepository, ingresos repository.IngresosRepository, notifier CierreNotifier) CajaService {
	return &cajaService{cajas: cajas, ingresos: ingresos, notifier: notifier, now: time.Now}
}

var toleranciaDenominaciones = decimal.New(1, -2)

// totalesCaja aggregates every source the drawer accounts for since it opened.
// Only cash moves the balance; card totals are informational.
type totalesCaja struct {
	parqueoEfectivo   repository.Suma
	parqueoTarjeta    repository.Suma
	serviciosEfectivo repository.Suma
	serviciosTarjeta  repository.Suma
	manuales          decimal.Decimal
	egresos           decimal.Decimal
}

func (t totalesCaja) ingresos() decimal.Decimal {
	return t.parqueoEfectivo.Total.Add(t.serviciosEfectivo.Total).Add(t.manuales)
}

func (t totalesCaja) saldoNeto() decimal.Decimal { return t.ingresos().Sub(t.egresos) }

func (t totalesCaja) esperado(inicial decimal.Decimal) decimal.Decimal {
	return inicial.Add(t.saldoNeto())
}

func calcularTotales(ctx context.Context, cajas repository.CajaRepository, ingresos repository.IngresosRepository, c *model.Caja) (totalesCaja, error) {
	var (
		t   totalesCaja
		err error
	)
	if t.parqueoEfectivo, err = ingresos.SumParqueo(ctx, c.FechaApertura, model.MetodoEfectivo); err != nil {
		return t, err
	}
	if t.parqueoTarjeta, err = ingresos.SumParqueo(ctx, c.FechaApertura, model.MetodoTarjeta); err != nil {
		return t, err
	}
	if t.serviciosEfectivo, err = ingresos.SumServicios(ctx, c.FechaApertura, false); err != nil {
		return t, err
	}
	if t.serviciosTarjeta, err = ingresos.SumServicios(ctx, c.FechaApertura, true); err != nil {
		return t, err
	}
	if t.manuales, err = cajas.SumMovimientosManuales(ctx, c.ID); err != nil {
		return t, err
	}
	if t.egresos, err = cajas.SumEgresos(ctx, c.ID); err != nil {
		return t, err
	}
	return t, nil
}

// enCentavos rejects amounts finer than a cent. Money columns are decimal(12,2).
func enCentavos(monto decimal.Decimal, campo string) error {
	if !monto.Equal(monto.Round(2)) {
		return apierror.Validation("%s admite como maximo dos decimales: %s", campo, monto.String())
	}
	return nil
}

// denominacionesDesde validates a bill/coin count against the amount it backs
// and turns it into rows. A nil or empty count is accepted as "not provided".
func denominacionesDesde(d *dto.Denominaciones, monto decimal.Decimal, tipo string) ([]model.DenominacionCaja, error) {
	if d == nil || len(d.Items) == 0 {
		return nil, nil
	}
	var (
		suma decimal.Decimal
		rows []model.DenominacionCaja
	)
	for _, it := range d.Items {
		if !it.Denominacion.IsPositive() || it.Cantidad < 0 {
			return nil, apierror.Validation("denominacion invalida: $%s x %d", it.Denominacion.StringFixed(2), it.Cantidad)
		}
		if err := enCentavos(it.Denominacion, "denominacion"); err != nil {
			return nil, err
		}
		if err := enCentavos(it.Subtotal, "subtotal"); err != nil {
			return nil, err
		}
		esperado := it.Denominacion.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		if it.Subtotal.Sub(esperado).Abs().GreaterThan(toleranciaDenominaciones) {
			return nil, apierror.Validation("subtotal $%s no coincide con $%s x %d",
				it.Subtotal.StringFixed(2), it.Denominacion.StringFixed(2), it.Cantidad)
		}
		suma = suma.Add(it.Subtotal)
		if it.Cantidad == 0 {
			continue
		}
		rows = append(rows, model.DenominacionCaja{
			TipoConteo:   tipo,
			Denominacion: it.Denominacion,
			Cantidad:     it.Cantidad,
			Subtotal:     it.Subtotal,
		})
	}
	if !d.Total.IsZero() && !d.Total.Equal(suma) {
		return nil, apierror.Validation("el total del desglose ($%s) no coincide con la suma de subtotales ($%s)",
			d.Total.String(), suma.StringFixed(2))
	}
	if suma.Sub(monto).Abs().GreaterThan(toleranciaDenominaciones) {
		return nil, apierror.Validation("el desglose de denominaciones ($%s) no coincide con el monto declarado ($%s)",
			suma.StringFixed(2), monto.StringFixed(2))
	}
	return rows, nil
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, apierror.Validation("el monto inicial no puede ser negativo")
	}
	if err := enCentavos(req.MontoInicial, "monto_inicial"); err != nil {
		return nil, err
	}
	denoms, err := denominacionesDesde(req.Denominaciones, req.MontoInicial, model.ConteoApertura)
	if err != nil {
		return nil, err
	}

	caja := &model.Caja{
		MontoInicial:     req.MontoInicial,
		FechaApertura:    s.now(),
		OperadorApertura: operador(req.Operador),
		NotasApertura:    req.Notas,
		Estado:           model.EstadoCajaAbierta,
		Denominaciones:   denoms,
	}
	err = runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		cajas := s.cajas.WithTx(tx)
		if _, err := cajas.FindAbierta(ctx); err == nil {
			return apierror.Conflict("ya existe una caja abierta")
		} else if !esNoEncontrado(err) {
			return err
		}
		if err := cajas.Create(ctx, caja); err != nil {
			if esDuplicado(err) {
				return apierror.Conflict("ya existe una caja abierta")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := cajaToResponse(caja)
	return &resp, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Snapshots the totals, the expected cash and the variance against the count.

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	if req.MontoFinal.IsNegative() {
		return nil, apierror.Validation("el monto final no puede ser negativo")
	}
	if err := enCentavos(req.MontoFinal, "monto_final"); err != nil {
		return nil, err
	}
	denoms, err := denominacionesDesde(req.Denominaciones, req.MontoFinal, model.ConteoCierre)
	if err != nil {
		return nil, err
	}

	var caja *model.Caja
	err = runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		cajas := s.cajas.WithTx(tx)
		abierta, err := cajas.FindAbierta(ctx)
		if esNoEncontrado(err) {
			return apierror.State("no hay una caja abierta para cerrar")
		}
		if err != nil {
			return err
		}
		locked, err := cajas.LockByID(ctx, abierta.ID)
		if err != nil {
			return err
		}
		if locked.Estado != model.EstadoCajaAbierta {
			return apierror.State("la caja ya esta cerrada")
		}

		t, err := calcularTotales(ctx, cajas, s.ingresos.WithTx(tx), locked)
		if err != nil {
			return err
		}
		esperado := t.esperado(locked.MontoInicial)
		diferencia := req.MontoFinal.Sub(esperado)
		cierre := s.now()
		op := operador(req.Operador)

		locked.MontoFinal = &req.MontoFinal
		locked.FechaCierre = &cierre
		locked.OperadorCierre = &op
		locked.NotasCierre = req.Notas
		locked.TotalParqueo = t.parqueoEfectivo.Total
		locked.TotalServicios = t.serviciosEfectivo.Total
		locked.TotalManuales = t.manuales
		locked.TotalEgresos = t.egresos
		locked.TotalIngresos = t.ingresos()
		locked.MontoEsperado = &esperado
		locked.Diferencia = &diferencia
		locked.Estado = model.EstadoCajaCerrada
		if err := cajas.Update(ctx, locked); err != nil {
			return err
		}

		for i := range denoms {
			denoms[i].CajaID = locked.ID
		}
		if err := cajas.CreateDenominaciones(ctx, denoms); err != nil {
			return err
		}
		locked.Denominaciones = append(abierta.Denominaciones, denoms...)
		caja = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotificarCierre(ctx, caja.ID); err != nil {
			log.Warn().Err(err).Str("caja_id", caja.ID.String()).Msg("caja: no se pudo encolar el reporte de cierre")
		}
	}

	resp := cajaToResponse(caja)
	return &resp, nil
}

// resolverCaja locks the drawer a movement targets: the one named by rawID,
// or the open one when rawID is empty. The drawer must be open.
func resolverCaja(ctx context.Context, cajas repository.CajaRepository, rawID string) (*model.Caja, error) {
	if rawID == "" {
		abierta, err := cajas.FindAbierta(ctx)
		if esNoEncontrado(err) {
			return nil, apierror.State("no hay una caja abierta")
		}
		if err != nil {
			return nil, err
		}
		return cajas.LockByID(ctx, abierta.ID)
	}

	id, err := parseID(rawID, "caja_id")
	if err != nil {
		return nil, err
	}
	caja, err := cajas.LockByID(ctx, id)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("caja %s no encontrada", id)
	}
	if err != nil {
		return nil, err
	}
	if caja.Estado != model.EstadoCajaAbierta {
		return nil, apierror.State("la caja %s esta cerrada", id)
	}
	return caja, nil
}

// ── RegistrarEgreso ───────────────────────────────────────────────────────────
// The drawer row is locked while the balance is recomputed so two withdrawals
// cannot both pass the funds check.

func (s *cajaService) RegistrarEgreso(ctx context.Context, req dto.EgresoRequest) (*dto.EgresoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("el monto del egreso debe ser mayor a cero")
	}
	if err := enCentavos(req.Monto, "monto"); err != nil {
		return nil, err
	}
	descripcion := strings.TrimSpace(req.Descripcion)
	if descripcion == "" {
		return nil, apierror.Validation("la descripcion del egreso es obligatoria")
	}

	var (
		egreso     *model.EgresoCaja
		disponible decimal.Decimal
	)
	err := runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		cajas := s.cajas.WithTx(tx)
		caja, err := resolverCaja(ctx, cajas, req.CajaID)
		if err != nil {
			return err
		}
		t, err := calcularTotales(ctx, cajas, s.ingresos.WithTx(tx), caja)
		if err != nil {
			return err
		}
		disponible = t.esperado(caja.MontoInicial)
		if req.Monto.GreaterThan(disponible) {
			return &apierror.InsufficientFundsError{Disponible: disponible, Solicitado: req.Monto}
		}

		egreso = &model.EgresoCaja{
			CajaID:      caja.ID,
			Monto:       req.Monto,
			Descripcion: descripcion,
			Operador:    operador(req.Operador),
			Fecha:       s.now(),
		}
		return cajas.CreateEgreso(ctx, egreso)
	})
	if err != nil {
		return nil, err
	}

	return &dto.EgresoResponse{
		ID:              egreso.ID.String(),
		CajaID:          egreso.CajaID.String(),
		Monto:           egreso.Monto,
		Descripcion:     egreso.Descripcion,
		Operador:        egreso.Operador,
		Fecha:           egreso.Fecha,
		SaldoDisponible: disponible.Sub(egreso.Monto),
	}, nil
}

// ── AgregarEfectivo ───────────────────────────────────────────────────────────

func (s *cajaService) AgregarEfectivo(ctx context.Context, req dto.AgregarEfectivoRequest) (*dto.MovimientoManualResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, apierror.Validation("el monto debe ser mayor a cero")
	}
	if err := enCentavos(req.Monto, "monto"); err != nil {
		return nil, err
	}
	descripcion := strings.TrimSpace(req.Descripcion)
	if descripcion == "" {
		descripcion = "Ingreso manual de efectivo"
	}

	var mov *model.MovimientoManualCaja
	err := runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		cajas := s.cajas.WithTx(tx)
		caja, err := resolverCaja(ctx, cajas, req.CajaID)
		if err != nil {
			return err
		}
		mov = &model.MovimientoManualCaja{
			CajaID:      caja.ID,
			Monto:       req.Monto,
			Descripcion: descripcion,
			Operador:    operador(req.Operador),
			Fecha:       s.now(),
		}
		return cajas.CreateMovimientoManual(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	return &dto.MovimientoManualResponse{
		ID:          mov.ID.String(),
		CajaID:      mov.CajaID.String(),
		Monto:       mov.Monto,
		Descripcion: mov.Descripcion,
		Operador:    mov.Operador,
		Fecha:       mov.Fecha,
	}, nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────
// Reads never write and are recomputed from the sources every time.

func (s *cajaService) ObtenerEstado(ctx context.Context) (*dto.CajaEstadoResponse, error) {
	caja, err := s.cajas.FindAbierta(ctx)
	if esNoEncontrado(err) {
		return &dto.CajaEstadoResponse{
			TotalDiaParqueo:          decimal.Zero,
			TotalDiaServicios:        decimal.Zero,
			TotalDiaManuales:         decimal.Zero,
			TotalDiaIngresos:         decimal.Zero,
			TotalDiaEgresos:          decimal.Zero,
			SaldoNeto:                decimal.Zero,
			SaldoActual:              decimal.Zero,
			TotalDiaParqueoTarjeta:   decimal.Zero,
			TotalDiaServiciosTarjeta: decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	t, err := calcularTotales(ctx, s.cajas, s.ingresos, caja)
	if err != nil {
		return nil, err
	}
	resp := cajaToResponse(caja)
	return &dto.CajaEstadoResponse{
		CajaAbierta:              true,
		CajaActual:               &resp,
		TotalDiaParqueo:          t.parqueoEfectivo.Total,
		TotalDiaServicios:        t.serviciosEfectivo.Total,
		TotalDiaManuales:         t.manuales,
		TotalDiaIngresos:         t.ingresos(),
		TotalDiaEgresos:          t.egresos,
		SaldoNeto:                t.saldoNeto(),
		SaldoActual:              t.esperado(caja.MontoInicial),
		TotalDiaParqueoTarjeta:   t.parqueoTarjeta.Total,
		TotalDiaServiciosTarjeta: t.serviciosTarjeta.Total,
	}, nil
}

func (s *cajaService) ObtenerMovimientos(ctx context.Context) (*dto.MovimientosCajaResponse, error) {
	resp := &dto.MovimientosCajaResponse{
		Movimientos:   []dto.MovimientoCajaResponse{},
		TotalEfectivo: decimal.Zero,
		TotalTarjeta:  decimal.Zero,
		TotalEgresos:  decimal.Zero,
		SaldoNeto:     decimal.Zero,
	}
	caja, err := s.cajas.FindAbierta(ctx)
	if esNoEncontrado(err) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	facturas, err := s.ingresos.ListParqueo(ctx, caja.FechaApertura)
	if err != nil {
		return nil, err
	}
	ventas, err := s.ingresos.ListServicios(ctx, caja.FechaApertura)
	if err != nil {
		return nil, err
	}
	manuales, err := s.cajas.ListMovimientosManuales(ctx, caja.ID)
	if err != nil {
		return nil, err
	}
	egresos, err := s.cajas.ListEgresos(ctx, caja.ID)
	if err != nil {
		return nil, err
	}

	movs := make([]dto.MovimientoCajaResponse, 0, len(facturas)+len(ventas)+len(manuales)+len(egresos))
	for _, f := range facturas {
		movs = append(movs, dto.MovimientoCajaResponse{
			ID:   "parqueo-" + f.ID.String(),
			Tipo: "parqueo",
			Descripcion: fmt.Sprintf("Parqueo %s, espacio %d (%s)",
				f.Placa, f.EspacioNumero, tarifa.FormatearTiempo(f.TiempoTotalMinutos)),
			Monto:      f.CostoTotal,
			MetodoPago: f.MetodoPago,
			Fecha:      f.FechaHoraSalida,
			SumaACaja:  f.MetodoPago != model.MetodoTarjeta,
		})
	}
	for _, v := range ventas {
		movs = append(movs, dto.MovimientoCajaResponse{
			ID:          "servicio-" + v.ID.String(),
			Tipo:        "servicio",
			Descripcion: describirVenta(v),
			Monto:       v.Total,
			MetodoPago:  v.MetodoPago,
			Fecha:       v.Fecha,
			SumaACaja:   v.MetodoPago != model.MetodoTarjeta,
		})
	}
	for _, m := range manuales {
		movs = append(movs, dto.MovimientoCajaResponse{
			ID:          "manual-" + m.ID.String(),
			Tipo:        "manual",
			Descripcion: m.Descripcion,
			Monto:       m.Monto,
			MetodoPago:  model.MetodoEfectivo,
			Fecha:       m.Fecha,
			SumaACaja:   true,
		})
	}
	for _, e := range egresos {
		movs = append(movs, dto.MovimientoCajaResponse{
			ID:          "egreso-" + e.ID.String(),
			Tipo:        "egreso",
			Descripcion: e.Descripcion,
			Monto:       e.Monto.Neg(),
			MetodoPago:  model.MetodoEfectivo,
			Fecha:       e.Fecha,
			SumaACaja:   true,
		})
	}
	sort.SliceStable(movs, func(i, j int) bool { return movs[i].Fecha.After(movs[j].Fecha) })

	for _, m := range movs {
		switch {
		case m.Tipo == "egreso":
			resp.TotalEgresos = resp.TotalEgresos.Add(m.Monto.Neg())
		case m.SumaACaja:
			resp.TotalEfectivo = resp.TotalEfectivo.Add(m.Monto)
		default:
			resp.TotalTarjeta = resp.TotalTarjeta.Add(m.Monto)
		}
	}
	resp.Movimientos = movs
	resp.SaldoNeto = resp.TotalEfectivo.Sub(resp.TotalEgresos)
	resp.TotalMovimientos = len(movs)
	return resp, nil
}

func (s *cajaService) ObtenerResumen(ctx context.Context) (*dto.ResumenCajaResponse, error) {
	caja, err := s.cajas.FindAbierta(ctx)
	if esNoEncontrado(err) {
		return nil, apierror.State("no hay una caja abierta")
	}
	if err != nil {
		return nil, err
	}
	t, err := calcularTotales(ctx, s.cajas, s.ingresos, caja)
	if err != nil {
		return nil, err
	}

	totales := func(efectivo, tarjeta repository.Suma) dto.TotalesMetodo {
		return dto.TotalesMetodo{
			Efectivo: efectivo.Total,
			Tarjeta:  tarjeta.Total,
			Total:    efectivo.Total.Add(tarjeta.Total),
			Cantidad: int(efectivo.Cantidad + tarjeta.Cantidad),
		}
	}
	return &dto.ResumenCajaResponse{
		Caja:          cajaToResponse(caja),
		Parqueo:       totales(t.parqueoEfectivo, t.parqueoTarjeta),
		Servicios:     totales(t.serviciosEfectivo, t.serviciosTarjeta),
		Manuales:      t.manuales,
		Egresos:       t.egresos,
		SaldoNeto:     t.saldoNeto(),
		MontoEsperado: t.esperado(caja.MontoInicial),
	}, nil
}

func (s *cajaService) Historial(ctx context.Context, limite int) ([]dto.CajaResponse, error) {
	if limite <= 0 {
		limite = 30
	}
	cajas, err := s.cajas.ListCerradas(ctx, limite)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CajaResponse, 0, len(cajas))
	for i := range cajas {
		out = append(out, cajaToResponse(&cajas[i]))
	}
	return out, nil
}

// ObtenerPorID returns a closed drawer's snapshot or, for the open one, its
// live totals.
func (s *cajaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.cajas.FindByID(ctx, id)
	if esNoEncontrado(err) {
		return nil, apierror.NotFound("caja %s no encontrada", id)
	}
	if err != nil {
		return nil, err
	}
	if caja.Estado == model.EstadoCajaAbierta {
		t, err := calcularTotales(ctx, s.cajas, s.ingresos, caja)
		if err != nil {
			return nil, err
		}
		esperado := t.esperado(caja.MontoInicial)
		caja.TotalParqueo = t.parqueoEfectivo.Total
		caja.TotalServicios = t.serviciosEfectivo.Total
		caja.TotalManuales = t.manuales
		caja.TotalEgresos = t.egresos
		caja.TotalIngresos = t.ingresos()
		caja.MontoEsperado = &esperado
	}
	resp := cajaToResponse(caja)
	return &resp, nil
}
