package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encoladorEspia struct {
	fechas chan string
}

func (e *encoladorEspia) EncolarReporteDiario(_ context.Context, fecha string) error {
	e.fechas <- fecha
	return nil
}

func TestScheduler_ExpresionInvalida(t *testing.T) {
	_, err := NewScheduler(context.Background(), "no es cron", &encoladorEspia{})
	assert.Error(t, err)
}

func TestScheduler_ProximaEjecucion(t *testing.T) {
	s, err := NewScheduler(context.Background(), "55 23 * * *", &encoladorEspia{})
	require.NoError(t, err)
	assert.True(t, s.Next().IsZero())

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return !s.Next().IsZero() }, time.Second, 10*time.Millisecond)
	next := s.Next()
	assert.Equal(t, 23, next.Hour())
	assert.Equal(t, 55, next.Minute())
}

func TestScheduler_EncolaConFechaDelDia(t *testing.T) {
	espia := &encoladorEspia{fechas: make(chan string, 1)}
	s, err := NewScheduler(context.Background(), "@every 1s", espia)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC) }

	s.Start()
	defer s.Stop()

	select {
	case fecha := <-espia.fechas:
		assert.Equal(t, "2026-03-10", fecha)
	case <-time.After(3 * time.Second):
		t.Fatal("el reporte no se encolo")
	}
}
