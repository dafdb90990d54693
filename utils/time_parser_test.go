package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"1h", time.Hour},
		{"90s", 90 * time.Second},
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "xd", "1.5w", "d"} {
		_, err := ParseDuration(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "none", FormatDuration(0))
	assert.Equal(t, "none", FormatDuration(-time.Hour))
	assert.Equal(t, "3d", FormatDuration(72*time.Hour))
	assert.Equal(t, "1h", FormatDuration(time.Hour))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "1m30s", FormatDuration(90*time.Second))
}
