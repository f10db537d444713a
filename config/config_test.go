package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "LOG_LEVEL", "SCORING_LOCK_TIMEOUT_MS", "MATCH_MIN_OVERS", "MATCH_MAX_OVERS"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8088", cfg.App.Port)
	assert.Equal(t, 2*time.Second, cfg.Scoring.LockTimeout)
	assert.Equal(t, 2, cfg.Scoring.MinOvers)
	assert.Equal(t, 50, cfg.Scoring.MaxOvers)
}

func TestLoadConfigScoringOverrides(t *testing.T) {
	t.Setenv("SCORING_LOCK_TIMEOUT_MS", "250")
	t.Setenv("MATCH_MIN_OVERS", "5")
	t.Setenv("MATCH_MAX_OVERS", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Scoring.LockTimeout)
	assert.Equal(t, 5, cfg.Scoring.MinOvers)
	assert.Equal(t, 20, cfg.Scoring.MaxOvers)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric timeout", map[string]string{"SCORING_LOCK_TIMEOUT_MS": "soon"}},
		{"zero timeout", map[string]string{"SCORING_LOCK_TIMEOUT_MS": "0"}},
		{"inverted range", map[string]string{"MATCH_MIN_OVERS": "20", "MATCH_MAX_OVERS": "10"}},
		{"zero minimum", map[string]string{"MATCH_MIN_OVERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
