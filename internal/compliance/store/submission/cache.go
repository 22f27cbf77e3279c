package submission

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewcycle/internal/compliance/metrics"
	"reviewcycle/internal/compliance/models"
	"reviewcycle/internal/compliance/ports"
	id "reviewcycle/pkg/domain"
	"reviewcycle/pkg/platform/circuit"
)

const (
	sideSubmitted = "submitted"
	sideReviewed  = "reviewed"

	cacheKeyPrefix = "reviewcycle:submissions:"
)

// Cache is a read-through Redis cache in front of a SubmissionQuery. Redis
// errors never fail a lookup: the call falls through to the wrapped query and
// the breaker stops Redis traffic after repeated failures.
type Cache struct {
	next    ports.SubmissionQuery
	client  redis.Cmdable
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type CacheOption func(*Cache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithBreaker(b *circuit.Breaker) CacheOption {
	return func(c *Cache) { c.breaker = b }
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

func NewCache(next ports.SubmissionQuery, client redis.Cmdable, opts ...CacheOption) (*Cache, error) {
	if next == nil {
		return nil, errors.New("submission query is required")
	}
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	c := &Cache{
		next:   next,
		client: client,
		ttl:    30 * time.Second,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = circuit.New("submission-cache")
	}
	return c, nil
}

func (c *Cache) SubmittedEmployeeIDs(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error) {
	return c.lookup(ctx, cacheKey(sideSubmitted, cycleID, quarter, kind), func(ctx context.Context) (models.EmployeeSet, error) {
		return c.next.SubmittedEmployeeIDs(ctx, cycleID, quarter, kind)
	})
}

func (c *Cache) ReviewedEmployeeIDs(ctx context.Context, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) (models.EmployeeSet, error) {
	return c.lookup(ctx, cacheKey(sideReviewed, cycleID, quarter, kind), func(ctx context.Context) (models.EmployeeSet, error) {
		return c.next.ReviewedEmployeeIDs(ctx, cycleID, quarter, kind)
	})
}

func cacheKey(side string, cycleID id.CycleID, quarter id.Quarter, kind models.Kind) string {
	return cacheKeyPrefix + side + ":" + string(kind) + ":" + cycleID.String() + ":" + quarter.Scope()
}

func (c *Cache) lookup(ctx context.Context, key string, load func(context.Context) (models.EmployeeSet, error)) (models.EmployeeSet, error) {
	if !c.breaker.Allow() {
		c.metrics.RecordCacheLookup("bypass")
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var ids []id.EmployeeID
		if jsonErr := json.Unmarshal(raw, &ids); jsonErr == nil {
			c.recordSuccess(ctx)
			c.metrics.RecordCacheLookup("hit")
			return models.NewEmployeeSet(ids...), nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		c.recordSuccess(ctx)
	default:
		c.recordFailure(ctx, "get", err)
		c.metrics.RecordCacheLookup("error")
		return load(ctx)
	}

	c.metrics.RecordCacheLookup("miss")
	set, err := load(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(set.IDs())
	if err != nil {
		return set, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, "set", err)
	}
	return set, nil
}

func (c *Cache) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "submission cache circuit closed", "breaker", c.breaker.Name())
	}
}

func (c *Cache) recordFailure(ctx context.Context, op string, err error) {
	_, change := c.breaker.RecordFailure()
	c.logger.WarnContext(ctx, "submission cache unavailable", "op", op, "error", err)
	if change.Opened {
		c.logger.WarnContext(ctx, "submission cache circuit opened", "breaker", c.breaker.Name())
	}
}
