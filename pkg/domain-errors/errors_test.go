package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "cycle not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("matches wrapped inner code", func(t *testing.T) {
		inner := New(CodeValidation, "self_review_start out of range")
		outer := Wrap(inner, CodeInternal, "upsert failed")
		assert.True(t, HasCode(outer, CodeValidation))
		assert.True(t, HasCode(outer, CodeInternal))
	})

	t.Run("sees through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("store: %w", New(CodeConflict, "duplicate"))
		assert.True(t, HasCode(err, CodeConflict))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestValidationDetails(t *testing.T) {
	err := Validation("self_review_start", "self_review_start must fall within the quarter", "2026-04-01", "2026-06-30")

	de, ok := As(fmt.Errorf("wrapped: %w", err))
	require.True(t, ok)
	assert.Equal(t, CodeValidation, de.Code)
	require.NotNil(t, de.Details)
	assert.Equal(t, "self_review_start", de.Details.Field)
	assert.Equal(t, "2026-04-01", de.Details.AllowedStart)
	assert.Equal(t, "2026-06-30", de.Details.AllowedEnd)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "failed to load window")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
