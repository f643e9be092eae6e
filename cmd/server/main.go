package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "clubhouse/internal/adapters/http"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/bootstrap"
	"clubhouse/internal/config"
	"clubhouse/internal/logging"
	"clubhouse/internal/telemetry"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logCloser := logging.Init(cfg.Log)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, "clubhouse", version)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	collector := perf.NewCollector(perf.DefaultRingSize)
	store, err := bootstrap.OpenStore(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer store.Close()

	migrated, err := orchestrators.ExecuteMigrate(ctx, orchestrators.MigrateDeps{Store: store})
	if err != nil {
		return err
	}
	if migrated.Changed() {
		slog.Info("startup_migration", "settings_applied", migrated.SettingsApplied,
			"created_at_backfills", migrated.CreatedAtBackfills, "discipline_capped", migrated.DisciplineCapped)
	}

	srv, err := web.New(web.Deps{
		Store:     store,
		Notifier:  bootstrap.Notifier(cfg),
		Collector: collector,
		Location:  cfg.Location,
	}, web.Options{
		StaticDir:      cfg.StaticDir,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CSRFKey:        cfg.CSRFKey,
		Production:     cfg.IsProduction(),
		SlowRequestMs:  cfg.SlowRequestMs,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Environment, "store", cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping", "wait", cfg.ShutdownWait.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
