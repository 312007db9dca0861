// cmd/report-api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agri-report-workers/internal/api"
	"agri-report-workers/internal/bootstrap"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "console").Error("config load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	log := logger.NewFromConfig(cfg.Logging)

	obs := observability.NewWithOptions("report-api", observability.Options{
		TracingEnabled:    cfg.Tracing.Enabled,
		CollectorEndpoint: cfg.Tracing.CollectorEndpoint,
	})
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, obs, log)
	if err != nil {
		log.Error("report runtime failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer rt.Close()

	srv := api.NewServer(cfg.API, rt.Catalog, rt.Runner, rt.Registry, log)
	go func() {
		if err := srv.Listen(cfg.API.Address); err != nil {
			log.Error("report API stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("report API shutdown", map[string]interface{}{"error": err.Error()})
	}
	log.Info("report API stopped gracefully", nil)
}
