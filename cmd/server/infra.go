package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	compliancemetrics "reviewcycle/internal/compliance/metrics"
	"reviewcycle/internal/compliance/ports"
	employeestore "reviewcycle/internal/compliance/store/employee"
	permissionstore "reviewcycle/internal/compliance/store/permission"
	"reviewcycle/internal/compliance/store/submission"
	"reviewcycle/internal/platform/config"
	"reviewcycle/internal/platform/postgres"
	"reviewcycle/internal/platform/redis"
	httptransport "reviewcycle/internal/transport/http"
	windowservice "reviewcycle/internal/window/service"
	cyclestore "reviewcycle/internal/window/store/cycle"
	windowstore "reviewcycle/internal/window/store/window"
	"reviewcycle/migrations"
	"reviewcycle/pkg/platform/audit"
	auditmemory "reviewcycle/pkg/platform/audit/store/memory"
	auditpostgres "reviewcycle/pkg/platform/audit/store/postgres"
	"reviewcycle/pkg/platform/circuit"
	"reviewcycle/pkg/platform/tx"
)

// infra is every store and runner the services need, backed either by
// Postgres (DATABASE_URL set) or by process memory.
type infra struct {
	kind        string
	cycles      windowservice.CycleStore
	windows     windowservice.WindowStore
	directory   ports.EmployeeDirectory
	submissions ports.SubmissionQuery
	goals       ports.GoalQuery
	permissions ports.PermissionStore
	audit       audit.Store
	tx          tx.Runner
	health      map[string]httptransport.HealthCheck
	closers     []func() error
}

func (i *infra) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		_ = i.closers[j]()
	}
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger, m *compliancemetrics.Metrics) (*infra, error) {
	var (
		i   *infra
		err error
	)
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		i = memoryInfra()
	} else if i, err = postgresInfra(ctx, cfg.DatabaseURL, log); err != nil {
		return nil, err
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		i.Close()
		return nil, err
	}
	if client == nil {
		return i, nil
	}
	i.closers = append(i.closers, client.Close)
	i.health["redis"] = client.Health

	cached, err := submission.NewCache(i.submissions, client.Client,
		submission.WithTTL(cfg.Redis.CacheTTL),
		submission.WithBreaker(circuit.New("submission-cache",
			circuit.WithFailureThreshold(5),
			circuit.WithCooldown(30*time.Second),
		)),
		submission.WithCacheLogger(log),
		submission.WithCacheMetrics(m),
	)
	if err != nil {
		i.Close()
		return nil, err
	}
	i.submissions = cached
	return i, nil
}

func memoryInfra() *infra {
	submissions := submission.NewInMemory()
	return &infra{
		kind:        "memory",
		cycles:      cyclestore.NewInMemory(),
		windows:     windowstore.NewInMemory(),
		directory:   employeestore.NewInMemory(),
		submissions: submissions,
		goals:       submissions,
		permissions: permissionstore.NewInMemory(),
		audit:       auditmemory.NewInMemoryStore(),
		tx:          tx.NewShardedRunner(),
		health:      map[string]httptransport.HealthCheck{},
	}
}

func postgresInfra(ctx context.Context, dsn string, log *slog.Logger) (*infra, error) {
	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	version, err := migrations.Apply(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("schema migrated", "version", version)
	submissions := submission.NewPostgres(db)
	return &infra{
		kind:        "postgres",
		cycles:      cyclestore.NewPostgres(db),
		windows:     windowstore.NewPostgres(db),
		directory:   employeestore.NewPostgres(db),
		submissions: submissions,
		goals:       submissions,
		permissions: permissionstore.NewPostgres(db),
		audit:       auditpostgres.New(db),
		tx:          tx.NewPostgresRunner(db),
		health:      map[string]httptransport.HealthCheck{"postgres": pingCheck(db)},
		closers:     []func() error{db.Close},
	}, nil
}

func pingCheck(db *sql.DB) httptransport.HealthCheck {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}
