package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueCierreCaja = "jobs:cierre_caja"
	QueueReporte    = "jobs:reporte_diario"

	JobCierreCaja    = "cierre_caja"
	JobReporteDiario = "reporte_diario"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

func (f HandlerFunc) Process(ctx context.Context, payload json.RawMessage) error { return f(ctx, payload) }

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// NotificarCierre queues the close summary of a drawer (PDF + email).
func (d *Dispatcher) NotificarCierre(ctx context.Context, cajaID uuid.UUID) error {
	return d.enqueue(ctx, QueueCierreCaja, JobCierreCaja, CierreCajaPayload{CajaID: cajaID.String()})
}

// EncolarReporteDiario queues the end-of-day report for fecha ("2006-01-02").
func (d *Dispatcher) EncolarReporteDiario(ctx context.Context, fecha string) error {
	return d.enqueue(ctx, QueueReporte, JobReporteDiario, ReporteDiarioPayload{Fecha: fecha})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb         *redis.Client
	handlers    map[string]Handler
	maxAttempts int
	backoff     time.Duration

	// wait after a Redis error other than an empty-queue timeout
	errorBackoff time.Duration
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{
		rdb:          rdb,
		handlers:     make(map[string]Handler),
		maxAttempts:  3,
		backoff:      time.Second,
		errorBackoff: 2 * time.Second,
	}
}

// Register binds a job type to its handler. Call before Start.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueCierreCaja, QueueReporte}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("BRPOP failed, backing off")
					pausa(ctx, p.errorBackoff)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

// pausa waits d or until ctx is done.
func pausa(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "", json.RawMessage(raw), "payload ilegible: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler for job type")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "tipo de job desconocido", 0)
		return
	}

	attempts := 0
	err := withRetry(ctx, p.maxAttempts, p.backoff, func(attempt int) error {
		attempts = attempt
		return h.Process(ctx, job.Payload)
	})
	if err != nil {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload,
			fmt.Sprintf("max retries (%d) exceeded: %s", p.maxAttempts, err), attempts)
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Int("attempts", attempts).Msg("job processed")
}

// withRetry calls fn up to maxAttempts times with exponential backoff:
// attempt 1 immediate, then base, 2×base, 4×base…
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		if i > 1 {
			wait := base * time.Duration(1<<uint(i-2))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if lastErr = fn(i); lastErr == nil {
			return nil
		}
		log.Warn().Err(lastErr).Int("attempt", i).Msg("job attempt failed")
	}
	return lastErr
}
