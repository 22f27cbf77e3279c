package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuarter(t *testing.T) {
	tests := []struct {
		in      string
		want    Quarter
		wantErr bool
	}{
		{"1", Q1, false},
		{"Q3", Q3, false},
		{" 4 ", Q4, false},
		{"year-end", YearEnd, false},
		{"any", AnyQuarter, false},
		{"0", QuarterUnset, true},
		{"5", QuarterUnset, true},
		{"", QuarterUnset, true},
		{"spring", QuarterUnset, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuarter(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuarterTagsAreDistinct(t *testing.T) {
	assert.False(t, QuarterUnset.IsValid(), "zero value must not be a usable tag")
	assert.False(t, YearEnd.IsNumbered())
	assert.False(t, AnyQuarter.IsNumbered())
	assert.NotEqual(t, YearEnd.Scope(), AnyQuarter.Scope())

	for _, q := range Quarters {
		assert.True(t, q.IsNumbered())
		back, err := QuarterFromScope(q.Scope())
		require.NoError(t, err)
		assert.Equal(t, q, back)
	}
}

func TestQuarterMarshalRejectsUnset(t *testing.T) {
	_, err := QuarterUnset.MarshalText()
	require.Error(t, err)
}
