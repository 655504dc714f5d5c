package worker

// cierre_worker.go
// Renders the close summary of a drawer to PDF and emails it to the owner.

import (
	"context"
	"encoding/json"
	"fmt"

	"parqueadero/internal/infra"
	"parqueadero/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CierreCajaPayload is the job envelope sent to QueueCierreCaja.
type CierreCajaPayload struct {
	CajaID string `json:"caja_id"`
}

// Mailer is the subset of infra.Mailer the workers use.
type Mailer interface {
	Habilitado() bool
	Enviar(to, asunto, cuerpo string, archivos []string, adjuntos ...infra.Adjunto) error
}

type CierreWorker struct {
	cajas        repository.CajaRepository
	mailer       Mailer
	negocio      string
	storagePath  string
	destinatario string
}

func NewCierreWorker(cajas repository.CajaRepository, mailer Mailer, negocio, storagePath, destinatario string) *CierreWorker {
	return &CierreWorker{
		cajas:        cajas,
		mailer:       mailer,
		negocio:      negocio,
		storagePath:  storagePath,
		destinatario: destinatario,
	}
}

func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CierreCajaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("cierre_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.CajaID)
	if err != nil {
		return fmt.Errorf("cierre_worker: invalid caja_id %q: %w", payload.CajaID, err)
	}

	caja, err := w.cajas.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("cierre_worker: load caja %s: %w", id, err)
	}
	ruta, err := infra.GenerarCierreCajaPDF(caja, w.negocio, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("caja_id", id.String()).Str("pdf", ruta).Msg("cierre_worker: PDF generado")

	if w.destinatario == "" || !w.mailer.Habilitado() {
		return nil
	}
	asunto := fmt.Sprintf("%s - Cierre de caja %s", w.negocio, caja.FechaCierre.Format("02/01/2006 15:04"))
	cuerpo := fmt.Sprintf("Caja cerrada por %s.\nEsperado: $%s\nContado: $%s\nDiferencia: $%s\n",
		valor(caja.OperadorCierre), caja.MontoEsperado.StringFixed(2),
		caja.MontoFinal.StringFixed(2), caja.Diferencia.StringFixed(2))
	if err := w.mailer.Enviar(w.destinatario, asunto, cuerpo, []string{ruta}); err != nil {
		return fmt.Errorf("cierre_worker: send email: %w", err)
	}
	log.Info().Str("caja_id", id.String()).Str("to", w.destinatario).Msg("cierre_worker: email enviado")
	return nil
}

func valor(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
