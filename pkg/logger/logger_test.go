package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"", false, true},
		{"nonsense", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := build(&buf, tt.level)

			l.Debug().Msg("d")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			buf.Reset()
			l.Info().Msg("i")
			assert.Equal(t, tt.wantInfo, buf.Len() > 0)
		})
	}
}

func TestBuildWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "info")
	l.Info().Uint("match_id", 7).Msg("ball recorded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ball recorded", entry["message"])
	assert.Equal(t, float64(7), entry["match_id"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "caller")
}
