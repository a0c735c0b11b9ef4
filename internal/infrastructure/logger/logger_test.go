package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/LavaJover/shvark-cashout-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashout.log")
	log, closer, err := New(config.LogConfig{LogLevel: "warn", LogFormat: "json", LogOutput: path})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("serving degraded quote", "asset", "ethereum")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "exactly one json line expected")
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "serving degraded quote", entry["msg"])
	assert.Equal(t, "ethereum", entry["asset"])
	assert.Equal(t, "cashout-service", entry["service"])
}

func TestNew_Tint(t *testing.T) {
	log, closer, err := New(config.LogConfig{LogLevel: "debug", LogFormat: "tint", LogOutput: "stderr"})
	require.NoError(t, err)
	defer closer.Close()
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}
