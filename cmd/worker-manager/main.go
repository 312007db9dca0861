// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agri-report-workers/internal/bootstrap"
	"agri-report-workers/internal/common/camunda"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/common/observability"
)

const healthAddress = ":8080"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "console").Error("config load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.NewFromConfig(cfg.Logging)
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.NewWithOptions("worker-manager", observability.Options{
		TracingEnabled:    cfg.Tracing.Enabled,
		CollectorEndpoint: cfg.Tracing.CollectorEndpoint,
	})
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ClientConfigFrom(cfg.Camunda), log)
	if err != nil {
		log.Error("zeebe client failed after retries", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Backends, providers, sinks ---
	rt, err := bootstrap.Open(ctx, cfg, obs, log)
	if err != nil {
		log.Error("report runtime failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer rt.Close()

	outcomes, err := rt.Provisioner().Run(ctx)
	if err != nil {
		log.Error("provisioning failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("provisioning complete", map[string]interface{}{"steps": len(outcomes)})

	// --- Workers ---
	workers := camunda.NewWorkerSet(log)
	for _, e := range rt.Catalog.Entries() {
		workers.Start(zeebe.GetClient(), e.Name, e.Worker, e.Handler)
	}
	log.Info("workers registered", map[string]interface{}{"taskTypes": workers.TaskTypes()})

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		rctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(rctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err := rt.Ready(rctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	srv := &http.Server{Addr: healthAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": healthAddress})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("health server shutdown", map[string]interface{}{"error": err.Error()})
	}
	log.Info("worker manager stopped gracefully", nil)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
