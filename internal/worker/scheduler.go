package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReporteEncolador queues the daily report. Implemented by Dispatcher.
type ReporteEncolador interface {
	EncolarReporteDiario(ctx context.Context, fecha string) error
}

// Scheduler triggers the end-of-day report on a cron expression.
type Scheduler struct {
	cron *cron.Cron
	now  func() time.Time
}

// NewScheduler registers the daily report job. expr is a standard 5-field
// cron expression evaluated in local time.
func NewScheduler(ctx context.Context, expr string, encolador ReporteEncolador) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), now: time.Now}
	_, err := s.cron.AddFunc(expr, func() {
		fecha := s.now().Format("2006-01-02")
		if err := encolador.EncolarReporteDiario(ctx, fecha); err != nil {
			log.Error().Err(err).Str("fecha", fecha).Msg("scheduler: failed to enqueue daily report")
			return
		}
		log.Info().Str("fecha", fecha).Msg("scheduler: daily report enqueued")
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("entries", len(s.cron.Entries())).Msg("scheduler: started")
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next returns the next activation time, zero when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
