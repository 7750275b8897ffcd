package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	assert.Error(t, Setup(cfg))
}

func TestWithComponentEmitsLeveledEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	cfg := LogConfig{Level: "debug", Format: "json", Output: path}
	require.NoError(t, Setup(cfg))

	log := WithComponent("extract")
	log.Warn().Str("reason", "fallback unavailable").Msg("degraded")
	log.Info().Msg("processing")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"component":"extract"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"reason":"fallback unavailable"`)
	assert.Contains(t, out, `"level":"info"`)
}
