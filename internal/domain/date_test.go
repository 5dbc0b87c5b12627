package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateStrictLayouts(t *testing.T) {
	want := time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2021:01:05", "2021-01-05", "2021/01/05", "2021.01.05"} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDate(input)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "parsed %v, want %v", got, want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDateFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "month name",
			input: "Jan 5, 2021",
			want:  time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "unpadded components",
			input: "2021-1-5",
			want:  time.Date(2021, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "long month name",
			input: "September 17, 2012",
			want:  time.Date(2012, time.September, 17, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "parsed %v, want %v", got, tt.want)
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"not-a-date", "2021-13-40", "yesterdayish"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDateFormat)
			assert.Contains(t, err.Error(), input)
		})
	}
}
