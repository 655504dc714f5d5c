package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"parqueadero/internal/infra"
	"parqueadero/internal/model"
	"parqueadero/internal/repository"
	"parqueadero/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailerEspia struct {
	habilitado bool
	err        error
	envios     []envio
}

type envio struct {
	to, asunto, cuerpo string
	archivos           []string
	adjuntos           []infra.Adjunto
}

func (m *mailerEspia) Habilitado() bool { return m.habilitado }

func (m *mailerEspia) Enviar(to, asunto, cuerpo string, archivos []string, adjuntos ...infra.Adjunto) error {
	m.envios = append(m.envios, envio{to, asunto, cuerpo, archivos, adjuntos})
	return m.err
}

func cajaCerrada(t *testing.T, repo repository.CajaRepository) *model.Caja {
	t.Helper()
	d := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}
	cierre := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	operador := "Lucia"
	c := &model.Caja{
		MontoInicial:     decimal.RequireFromString("100.00"),
		FechaApertura:    time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		OperadorApertura: "Lucia",
		MontoFinal:       d("116.50"),
		FechaCierre:      &cierre,
		OperadorCierre:   &operador,
		TotalParqueo:     decimal.RequireFromString("1.50"),
		TotalManuales:    decimal.RequireFromString("20.00"),
		TotalEgresos:     decimal.RequireFromString("5.00"),
		TotalIngresos:    decimal.RequireFromString("21.50"),
		MontoEsperado:    d("116.50"),
		Diferencia:       d("0.00"),
		Estado:           model.EstadoCajaCerrada,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func payloadCierre(t *testing.T, id string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(CierreCajaPayload{CajaID: id})
	require.NoError(t, err)
	return raw
}

func TestCierreWorker_GeneraPDFyEnvia(t *testing.T) {
	repo := repository.NewCajaRepository(testutil.NewDB(t))
	caja := cajaCerrada(t, repo)
	mailer := &mailerEspia{habilitado: true}
	dir := t.TempDir()
	w := NewCierreWorker(repo, mailer, "Hotel Central", dir, "duenio@hotel.test")

	require.NoError(t, w.Process(context.Background(), payloadCierre(t, caja.ID.String())))

	require.Len(t, mailer.envios, 1)
	e := mailer.envios[0]
	assert.Equal(t, "duenio@hotel.test", e.to)
	assert.Equal(t, "Hotel Central - Cierre de caja 10/03/2026 20:00", e.asunto)
	assert.Contains(t, e.cuerpo, "Caja cerrada por Lucia.")
	assert.Contains(t, e.cuerpo, "Esperado: $116.50")
	assert.Contains(t, e.cuerpo, "Diferencia: $0.00")
	require.Len(t, e.archivos, 1)
	_, err := os.Stat(e.archivos[0])
	assert.NoError(t, err)
}

func TestCierreWorker_SinCorreoSoloPDF(t *testing.T) {
	repo := repository.NewCajaRepository(testutil.NewDB(t))
	caja := cajaCerrada(t, repo)
	dir := t.TempDir()

	deshabilitado := &mailerEspia{}
	w := NewCierreWorker(repo, deshabilitado, "Hotel Central", dir, "duenio@hotel.test")
	require.NoError(t, w.Process(context.Background(), payloadCierre(t, caja.ID.String())))
	assert.Empty(t, deshabilitado.envios)

	sinDestino := &mailerEspia{habilitado: true}
	w = NewCierreWorker(repo, sinDestino, "Hotel Central", dir, "")
	require.NoError(t, w.Process(context.Background(), payloadCierre(t, caja.ID.String())))
	assert.Empty(t, sinDestino.envios)

	pdfs, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfs)
}

func TestCierreWorker_Errores(t *testing.T) {
	repo := repository.NewCajaRepository(testutil.NewDB(t))
	ctx := context.Background()
	w := NewCierreWorker(repo, &mailerEspia{habilitado: true}, "Hotel Central", t.TempDir(), "duenio@hotel.test")

	assert.Error(t, w.Process(ctx, json.RawMessage(`{`)))
	assert.Error(t, w.Process(ctx, payloadCierre(t, "no-es-uuid")))
	assert.Error(t, w.Process(ctx, payloadCierre(t, uuid.NewString())))

	abierta := &model.Caja{
		MontoInicial:     decimal.RequireFromString("50.00"),
		FechaApertura:    time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		OperadorApertura: "Lucia",
		Estado:           model.EstadoCajaAbierta,
	}
	require.NoError(t, repo.Create(ctx, abierta))
	assert.Error(t, w.Process(ctx, payloadCierre(t, abierta.ID.String())))
}

func TestCierreWorker_FallaDeEnvioSePropaga(t *testing.T) {
	repo := repository.NewCajaRepository(testutil.NewDB(t))
	caja := cajaCerrada(t, repo)
	mailer := &mailerEspia{habilitado: true, err: errors.New("smtp: connection refused")}
	w := NewCierreWorker(repo, mailer, "Hotel Central", t.TempDir(), "duenio@hotel.test")

	err := w.Process(context.Background(), payloadCierre(t, caja.ID.String()))
	assert.ErrorContains(t, err, "connection refused")
}
