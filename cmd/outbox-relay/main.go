// Command outbox-relay drains the audit outbox table into Kafka.
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

	"github.com/spf13/cobra"

	"reviewcycle/internal/platform/config"
	"reviewcycle/internal/platform/httpserver"
	"reviewcycle/internal/platform/logger"
	"reviewcycle/internal/platform/metrics"
	"reviewcycle/internal/platform/postgres"
	"reviewcycle/migrations"
	"reviewcycle/pkg/platform/audit/relay"
	auditpostgres "reviewcycle/pkg/platform/audit/store/postgres"
	"reviewcycle/pkg/platform/tx"
)

var (
	cfg          config.Server
	log          *slog.Logger
	registry     = metrics.NewRegistry()
	relayMetrics = relay.NewMetrics(registry)

	brokers     []string
	topic       string
	interval    time.Duration
	batchSize   int
	partitions  int32
	replicas    int16
	metricsAddr string

	rootCmd = &cobra.Command{
		Use:           "outbox-relay",
		Short:         "Publish audit outbox entries to Kafka",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.FromEnv(); err != nil {
				return err
			}
			log = logger.New(cfg.LogLevel, cfg.IsDevelopment())
			applyOverrides()
			return nil
		},
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Poll the outbox until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if metricsAddr != "" {
				srv := httpserver.New(metricsAddr, metrics.Handler(registry))
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server failed", "error", err)
					}
				}()
				defer srv.Close()
			}
			return withRelay(ctx, func(ctx context.Context, r *relay.Relay) error {
				log.Info("outbox relay started", "topic", cfg.Kafka.AuditTopic, "interval", cfg.Kafka.PollInterval)
				err := r.Run(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}

	drainCmd = &cobra.Command{
		Use:   "drain",
		Short: "Publish every pending entry once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRelay(cmd.Context(), func(ctx context.Context, r *relay.Relay) error {
				total := 0
				for {
					n, err := r.RunOnce(ctx)
					if err != nil {
						return err
					}
					total += n
					if n < cfg.Kafka.BatchSize {
						log.Info("outbox drained", "published", total)
						return nil
					}
				}
			})
		},
	}

	ensureTopicCmd = &cobra.Command{
		Use:   "ensure-topic",
		Short: "Create the audit topic if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			producer, err := relay.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
			if err != nil {
				return err
			}
			defer producer.Close()
			if err := producer.EnsureTopic(cmd.Context(), partitions, replicas); err != nil {
				return err
			}
			log.Info("topic ready", "topic", cfg.Kafka.AuditTopic)
			return nil
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&brokers, "brokers", nil, "Kafka seed brokers (overrides KAFKA_BROKERS)")
	pf.StringVar(&topic, "topic", "", "audit topic (overrides AUDIT_TOPIC)")

	for _, c := range []*cobra.Command{runCmd, drainCmd} {
		c.Flags().DurationVar(&interval, "interval", 0, "poll interval (overrides OUTBOX_POLL_INTERVAL)")
		c.Flags().IntVar(&batchSize, "batch-size", 0, "entries per batch (overrides OUTBOX_BATCH_SIZE)")
	}
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address when set")
	ensureTopicCmd.Flags().Int32Var(&partitions, "partitions", 3, "partition count for a new topic")
	ensureTopicCmd.Flags().Int16Var(&replicas, "replication-factor", 1, "replication factor for a new topic")

	rootCmd.AddCommand(runCmd, drainCmd, ensureTopicCmd)
}

func applyOverrides() {
	if len(brokers) > 0 {
		cfg.Kafka.Brokers = brokers
	}
	if topic != "" {
		cfg.Kafka.AuditTopic = topic
	}
	if interval > 0 {
		cfg.Kafka.PollInterval = interval
	}
	if batchSize > 0 {
		cfg.Kafka.BatchSize = batchSize
	}
}

func withRelay(ctx context.Context, fn func(context.Context, *relay.Relay) error) error {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	version, err := migrations.Apply(ctx, db)
	if err != nil {
		return err
	}
	log.Info("schema migrated", "version", version)

	producer, err := relay.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	if err != nil {
		return err
	}
	defer producer.Close()
	if err := producer.Ping(ctx); err != nil {
		return err
	}

	r, err := relay.New(auditpostgres.New(db), producer, tx.NewPostgresRunner(db),
		relay.WithLogger(log),
		relay.WithInterval(cfg.Kafka.PollInterval),
		relay.WithBatchSize(cfg.Kafka.BatchSize),
		relay.WithMetrics(relayMetrics),
	)
	if err != nil {
		return err
	}
	return fn(ctx, r)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("outbox-relay failed", "error", err)
		os.Exit(1)
	}
}
