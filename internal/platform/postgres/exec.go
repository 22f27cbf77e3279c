package postgres

import (
	"context"
	"database/sql"
	"time"

	"cloud.google.com/go/civil"

	txcontext "reviewcycle/pkg/platform/tx"
)

// Executor is satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer returns the transaction carried by ctx, or db when there is none.
func Execer(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

// DateArg encodes a calendar date as a DATE parameter.
func DateArg(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// NullDateArg encodes an optional calendar date; nil becomes SQL NULL.
func NullDateArg(d *civil.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.In(time.UTC), Valid: true}
}

// DateOf decodes a scanned DATE column. The driver returns midnight UTC.
func DateOf(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

// NullDateOf decodes a nullable DATE column.
func NullDateOf(nt sql.NullTime) *civil.Date {
	if !nt.Valid {
		return nil
	}
	d := DateOf(nt.Time)
	return &d
}

// NullTimeArg encodes an optional timestamp.
func NullTimeArg(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// NullTimeOf decodes a nullable timestamp column.
func NullTimeOf(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
