package worker

// reporte_worker.go
// Emails the end-of-day summary with the invoices of the day as xlsx.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"parqueadero/internal/infra"
	"parqueadero/internal/service"

	"github.com/rs/zerolog/log"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReporteDiarioPayload is the job envelope sent to QueueReporte.
type ReporteDiarioPayload struct {
	Fecha string `json:"fecha"` // 2006-01-02
}

type ReporteWorker struct {
	reportes     service.ReporteService
	ventas       service.VentaServicioService
	mailer       Mailer
	negocio      string
	destinatario string
}

func NewReporteWorker(reportes service.ReporteService, ventas service.VentaServicioService, mailer Mailer, negocio, destinatario string) *ReporteWorker {
	return &ReporteWorker{
		reportes:     reportes,
		ventas:       ventas,
		mailer:       mailer,
		negocio:      negocio,
		destinatario: destinatario,
	}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReporteDiarioPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("reporte_worker: invalid payload: %w", err)
	}
	if w.destinatario == "" || !w.mailer.Habilitado() {
		log.Debug().Str("fecha", payload.Fecha).Msg("reporte_worker: email deshabilitado, se omite")
		return nil
	}

	diario, err := w.reportes.Diario(ctx, payload.Fecha)
	if err != nil {
		return fmt.Errorf("reporte_worker: reporte diario: %w", err)
	}
	servicios, err := w.ventas.ReporteDiario(ctx, payload.Fecha)
	if err != nil {
		return fmt.Errorf("reporte_worker: reporte servicios: %w", err)
	}
	var xlsx bytes.Buffer
	if err := w.reportes.ExportarFacturas(ctx, payload.Fecha, &xlsx); err != nil {
		return fmt.Errorf("reporte_worker: exportar facturas: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumen del %s\n\n", diario.Fecha)
	fmt.Fprintf(&b, "Vehiculos ingresados: %d\n", diario.TotalVehiculos)
	fmt.Fprintf(&b, "Vehiculos cobrados: %d (no pagados: %d)\n", diario.VehiculosSalieron, diario.VehiculosNoPagados)
	fmt.Fprintf(&b, "Parqueo: $%s (efectivo $%s, tarjeta $%s)\n",
		diario.TotalIngresos.StringFixed(2), diario.TotalEfectivo.StringFixed(2), diario.TotalTarjeta.StringFixed(2))
	fmt.Fprintf(&b, "Tiempo promedio: %s\n\n", diario.TiempoPromedio)
	fmt.Fprintf(&b, "Servicios: %d ventas, $%s\n", servicios.TotalVentas, servicios.TotalIngresos.StringFixed(2))

	asunto := fmt.Sprintf("%s - Reporte diario %s", w.negocio, diario.Fecha)
	adjunto := infra.Adjunto{
		Nombre:    fmt.Sprintf("facturas_%s.xlsx", diario.Fecha),
		Tipo:      mimeXLSX,
		Contenido: xlsx.Bytes(),
	}
	if err := w.mailer.Enviar(w.destinatario, asunto, b.String(), nil, adjunto); err != nil {
		return fmt.Errorf("reporte_worker: send email: %w", err)
	}
	log.Info().Str("fecha", diario.Fecha).Str("to", w.destinatario).Msg("reporte_worker: reporte enviado")
	return nil
}
