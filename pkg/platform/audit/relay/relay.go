// Package relay drains the audit outbox into Kafka.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"reviewcycle/pkg/platform/audit/store/postgres"
	"reviewcycle/pkg/platform/tx"
)

const lockKey = "audit-outbox-relay"

// Outbox is the subset of the outbox store the relay needs.
type Outbox interface {
	FetchUnprocessed(ctx context.Context, limit int) ([]postgres.Entry, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Message is one record handed to the producer.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes a batch synchronously; a nil error means every message is durable.
type Producer interface {
	Produce(ctx context.Context, msgs []Message) error
}

type Metrics struct {
	published prometheus.Counter
	failures  prometheus.Counter
}

// NewMetrics registers relay metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		published: f.NewCounter(prometheus.CounterOpts{
			Name: "reviewcycle_outbox_published_total",
			Help: "Outbox entries published to Kafka",
		}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "reviewcycle_outbox_publish_failures_total",
			Help: "Relay batches that failed to publish",
		}),
	}
}

func (m *Metrics) recordPublished(n int) {
	if m != nil {
		m.published.Add(float64(n))
	}
}

func (m *Metrics) recordFailure() {
	if m != nil {
		m.failures.Inc()
	}
}

// Relay polls the outbox, publishes each batch and marks it processed in the
// same transaction. A publish failure rolls the batch back for the next tick,
// so delivery is at-least-once.
type Relay struct {
	outbox    Outbox
	producer  Producer
	tx        tx.Runner
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *Metrics
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

func New(outbox Outbox, producer Producer, runner tx.Runner, opts ...Option) (*Relay, error) {
	if outbox == nil {
		return nil, errors.New("outbox store is required")
	}
	if producer == nil {
		return nil, errors.New("producer is required")
	}
	if runner == nil {
		return nil, errors.New("transaction runner is required")
	}
	r := &Relay{
		outbox:    outbox,
		producer:  producer,
		tx:        runner,
		interval:  2 * time.Second,
		batchSize: 100,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run drains until ctx is cancelled. A full batch triggers an immediate
// follow-up instead of waiting for the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		n, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.ErrorContext(ctx, "outbox relay batch failed", "error", err)
		}
		if err == nil && n == r.batchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce publishes at most one batch and returns how many entries it published.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	var published int
	err := r.tx.RunInTx(ctx, lockKey, func(ctx context.Context) error {
		entries, err := r.outbox.FetchUnprocessed(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		msgs := make([]Message, len(entries))
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			msgs[i] = Message{
				Key:   []byte(e.AggregateID),
				Value: e.Payload,
				Headers: map[string]string{
					"event_type":     e.EventType,
					"aggregate_type": e.AggregateType,
					"outbox_id":      e.ID.String(),
				},
			}
			ids[i] = e.ID
		}

		if err := r.producer.Produce(ctx, msgs); err != nil {
			r.metrics.recordFailure()
			return err
		}
		if err := r.outbox.MarkProcessed(ctx, ids, time.Now()); err != nil {
			return err
		}
		published = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.metrics.recordPublished(published)
		r.logger.DebugContext(ctx, "outbox batch published", "count", published)
	}
	return published, nil
}
