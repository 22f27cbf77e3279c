package postgres

import (
	"database/sql"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDateRoundTrip(t *testing.T) {
	d := civil.Date{Year: 2026, Month: time.February, Day: 28}
	assert.Equal(t, d, DateOf(DateArg(d)))

	assert.False(t, NullDateArg(nil).Valid)
	assert.Nil(t, NullDateOf(sql.NullTime{}))
	got := NullDateOf(NullDateArg(&d))
	if assert.NotNil(t, got) {
		assert.Equal(t, d, *got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}
