package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_ExitoTrasFallos(t *testing.T) {
	var intentos []int
	err := withRetry(context.Background(), 3, time.Millisecond, func(attempt int) error {
		intentos = append(intentos, attempt)
		if attempt < 3 {
			return errors.New("smtp caido")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, intentos)
}

func TestWithRetry_AgotaIntentos(t *testing.T) {
	llamadas := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func(int) error {
		llamadas++
		return errors.New("falla permanente")
	})
	assert.EqualError(t, err, "falla permanente")
	assert.Equal(t, 2, llamadas)
}

func TestWithRetry_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llamadas := 0
	err := withRetry(ctx, 5, time.Hour, func(int) error {
		llamadas++
		cancel()
		return errors.New("falla")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, llamadas)
}

func TestEncodeJob(t *testing.T) {
	raw, err := encodeJob(JobReporteDiario, ReporteDiarioPayload{Fecha: "2026-03-10"})
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal(raw, &job))
	assert.Equal(t, JobReporteDiario, job.Type)
	assert.JSONEq(t, `{"fecha":"2026-03-10"}`, string(job.Payload))
}

func TestHandlerFunc(t *testing.T) {
	var recibido string
	h := HandlerFunc(func(_ context.Context, payload json.RawMessage) error {
		recibido = string(payload)
		return nil
	})
	require.NoError(t, h.Process(context.Background(), json.RawMessage(`{"a":1}`)))
	assert.Equal(t, `{"a":1}`, recibido)
}

// contadorBRPop counts the BRPOP commands a client issues.
type contadorBRPop struct {
	n atomic.Int32
}

func (h *contadorBRPop) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *contadorBRPop) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "brpop" {
			h.n.Add(1)
		}
		return next(ctx, cmd)
	}
}

func (h *contadorBRPop) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestPool_RedisCaidoEsperaEntreIntentos(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	defer rdb.Close()
	contador := &contadorBRPop{}
	rdb.AddHook(contador)

	p := NewPool(rdb)
	p.errorBackoff = 100 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 350*time.Millisecond)
	defer cancel()

	p.Start(ctx, 1)
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)

	n := contador.n.Load()
	assert.GreaterOrEqual(t, n, int32(1))
	assert.LessOrEqual(t, n, int32(6))
}
