package infra

import (
	"net/smtp"
	"testing"

	"parqueadero/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerDeshabilitadoSinHost(t *testing.T) {
	m := NewMailer(&config.Config{})
	assert.False(t, m.Habilitado())
	assert.ErrorIs(t, m.Enviar("a@b.c", "x", "y", nil), ErrMailerDisabled)
}

func TestMailerArmaMensaje(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.local", SMTPPort: 2525, SMTPUser: "caja@hotel.local"})
	var (
		enviado *email.Email
		destino string
	)
	m.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		enviado, destino = e, addr
		return nil
	}

	err := m.Enviar("gerencia@hotel.local", "Cierre", "cuerpo", nil,
		Adjunto{Nombre: "reporte.xlsx", Tipo: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Contenido: []byte("xlsx")})
	require.NoError(t, err)

	assert.Equal(t, "smtp.local:2525", destino)
	assert.Equal(t, "caja@hotel.local", enviado.From)
	assert.Equal(t, []string{"gerencia@hotel.local"}, enviado.To)
	require.Len(t, enviado.Attachments, 1)
	assert.Equal(t, "reporte.xlsx", enviado.Attachments[0].Filename)
}

func TestMailerAdjuntoInexistente(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.local"})
	m.send = func(*email.Email, string, smtp.Auth) error { return nil }
	assert.Error(t, m.Enviar("a@b.c", "x", "y", []string{"/no/existe.pdf"}))
}
