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

	"reviewcycle/internal/compliance"
	"reviewcycle/internal/compliance/dashboard"
	compliancemetrics "reviewcycle/internal/compliance/metrics"
	complianceservice "reviewcycle/internal/compliance/service"
	"reviewcycle/internal/platform/config"
	"reviewcycle/internal/platform/httpserver"
	"reviewcycle/internal/platform/logger"
	"reviewcycle/internal/platform/metrics"
	httptransport "reviewcycle/internal/transport/http"
	"reviewcycle/internal/window"
	windowmetrics "reviewcycle/internal/window/metrics"
	windowservice "reviewcycle/internal/window/service"
)

// main wires storage, services and the router, then serves until SIGINT/SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := metrics.NewRegistry()
	complianceMetrics := compliancemetrics.New(reg)

	infra, err := openInfra(ctx, cfg, log, complianceMetrics)
	if err != nil {
		return err
	}
	defer infra.Close()

	windowMetrics := windowmetrics.New(reg)
	windows, err := window.NewService(infra.cycles, infra.windows,
		windowservice.WithLogger(log),
		windowservice.WithMetrics(windowMetrics),
		windowservice.WithTxRunner(infra.tx),
		windowservice.WithAuditStore(infra.audit),
	)
	if err != nil {
		return err
	}
	cycles, err := window.NewCycleService(infra.cycles,
		windowservice.WithCycleLogger(log),
		windowservice.WithCycleMetrics(windowMetrics),
		windowservice.WithCycleTxRunner(infra.tx),
		windowservice.WithCycleAuditStore(infra.audit),
	)
	if err != nil {
		return err
	}

	services, err := compliance.New(compliance.Stores{
		Directory:   infra.directory,
		Submissions: infra.submissions,
		Goals:       infra.goals,
		Permissions: infra.permissions,
		Windows:     windows,
		Cycles:      cycles,
	}, []complianceservice.Option{
		complianceservice.WithLogger(log),
		complianceservice.WithMetrics(complianceMetrics),
		complianceservice.WithTxRunner(infra.tx),
		complianceservice.WithAuditStore(infra.audit),
	}, dashboard.WithLogger(log), dashboard.WithMetrics(complianceMetrics))
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Registry: reg,
		Modules: []httptransport.Registrar{
			window.NewHandler(windows, cycles, log),
			services.Handler(log),
		},
		Health: infra.health,
	})
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting reviewcycle", "addr", cfg.Addr, "storage", infra.kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
