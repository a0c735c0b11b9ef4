package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/config"
	"github.com/lmittmann/tint"
)

// New builds the service logger from log_config. The returned closer releases
// the log file when log_output names one.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	out, closer, err := openOutput(cfg.LogOutput)
	if err != nil {
		return nil, nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "tint":
		handler = tint.NewHandler(out, &tint.Options{
			AddSource:  level == slog.LevelDebug,
			Level:      level,
			TimeFormat: time.DateTime,
		})
	case "text":
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler).With("service", "cashout-service"), closer, nil
}

func ParseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(target string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(target) {
	case "", "stdout":
		return os.Stdout, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}
