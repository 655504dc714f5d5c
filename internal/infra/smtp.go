package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"parqueadero/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDisabled is returned when SMTP_HOST is not configured.
var ErrMailerDisabled = errors.New("mailer: smtp not configured")

// Adjunto is an in-memory attachment.
type Adjunto struct {
	Nombre    string
	Tipo      string // MIME type
	Contenido []byte
}

// Mailer sends report emails through SMTP, behind a circuit breaker.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	breaker  *Breaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewBreaker(DefaultBreakerConfig()),
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

func (m *Mailer) Habilitado() bool { return m.host != "" }

// Enviar sends a plain-text message with optional file and in-memory attachments.
func (m *Mailer) Enviar(to, asunto, cuerpo string, archivos []string, adjuntos ...Adjunto) error {
	if !m.Habilitado() {
		return ErrMailerDisabled
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = asunto
	e.Text = []byte(cuerpo)

	for _, ruta := range archivos {
		if _, err := e.AttachFile(ruta); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", ruta, err)
		}
	}
	for _, a := range adjuntos {
		if _, err := e.Attach(bytes.NewReader(a.Contenido), a.Nombre, a.Tipo); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Nombre, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.breaker.Do(func() error { return m.send(e, m.addr, auth) })
}
