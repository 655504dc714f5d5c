package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parqueadero/internal/config"
	"parqueadero/internal/infra"
	"parqueadero/internal/repository"
	"parqueadero/internal/router"
	"parqueadero/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(rdb)
	svcs := router.NewServices(cfg, db, infra.NewRedisCache(rdb), dispatcher)

	// Worker handlers are wired here (composition root) so the pool has
	// access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	if !mailer.Habilitado() {
		log.Warn().Msg("SMTP_HOST vacio: los reportes no se enviaran por email")
	}
	pool := worker.NewPool(rdb)
	pool.Register(worker.JobCierreCaja, worker.NewCierreWorker(
		repository.NewCajaRepository(db), mailer, cfg.NombreNegocio, cfg.PDFStoragePath, cfg.ReporteEmail))
	pool.Register(worker.JobReporteDiario, worker.NewReporteWorker(
		svcs.Reportes, svcs.Ventas, mailer, cfg.NombreNegocio, cfg.ReporteEmail))
	pool.Start(ctx, cfg.WorkerPoolSize)

	scheduler, err := worker.NewScheduler(ctx, cfg.ReporteCron, dispatcher)
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.ReporteCron).Msg("invalid REPORTE_CRON")
	}
	scheduler.Start()

	r := router.New(cfg, db, rdb, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("parqueadero backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	scheduler.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
