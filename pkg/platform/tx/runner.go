package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	dErrors "reviewcycle/pkg/domain-errors"
)

// DefaultTimeout bounds a transaction when the caller has not set a deadline.
const DefaultTimeout = 5 * time.Second

// Runner executes fn as one atomic unit serialized against every other unit
// sharing the same key. Stores reached from fn pick the active transaction (if any)
// out of the context with From.
type Runner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

const numShards = 128

// ShardedRunner serializes in-memory transactions with a fixed pool of mutexes.
// Keys hash onto shards, so unrelated keys may share a lock but equal keys always do.
type ShardedRunner struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

// NewShardedRunner returns a Runner for the in-memory stores.
func NewShardedRunner() *ShardedRunner {
	return &ShardedRunner{}
}

func (r *ShardedRunner) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ctx, cancel, err := withTimeout(ctx, r.timeout)
	if err != nil {
		return err
	}
	defer cancel()

	shard := hashKey(key) % numShards
	r.shards[shard].Lock()
	defer r.shards[shard].Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// PostgresRunner opens a transaction per unit and takes a transaction-scoped
// advisory lock on the key before running fn.
type PostgresRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresRunner returns a Runner backed by db.
func NewPostgresRunner(db *sql.DB) *PostgresRunner {
	return &PostgresRunner{db: db}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	// Nested units join the outer transaction; the outer lock already covers them.
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	ctx, cancel, err := withTimeout(ctx, r.timeout)
	if err != nil {
		return err
	}
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("acquire advisory lock: %w", err)
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return ctx, func() {}, dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, cancel, nil
}

// hashKey uses FNV-1a for an even spread across shards.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
