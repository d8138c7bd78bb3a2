// Package logging configures the diagnostic log. Diagnostics are kept apart
// from command output: they go to a rotating file unless configured otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sdb_cli/pkg/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "sdb_cli.log"
const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// stderrLogFile routes diagnostics to stderr instead of a file.
const stderrLogFile = "-"

// Init configures slog as the default logger and returns it together with a
// function that flushes and closes the log file.
func Init(cfg config.Config) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	handlerOptions := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	if strings.EqualFold(strings.TrimSpace(cfg.LogLevel), "off") {
		return setDefault(newHandler(cfg.LogFormat, io.Discard, handlerOptions)), noop, nil
	}

	logPath := strings.TrimSpace(cfg.LogFile)
	if logPath == stderrLogFile {
		return setDefault(newHandler(cfg.LogFormat, os.Stderr, handlerOptions)), noop, nil
	}
	if logPath == "" {
		logPath = defaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return setDefault(newHandler(cfg.LogFormat, io.Discard, handlerOptions)), noop, err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	return setDefault(newHandler(cfg.LogFormat, writer, handlerOptions)), writer.Close, nil
}

func setDefault(h slog.Handler) *slog.Logger {
	logger := slog.New(h).With(slog.Int("pid", os.Getpid()))
	slog.SetDefault(logger)
	return logger
}

func defaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".sdb_cli", "logs", defaultLogFile)
	}
	return filepath.Join(homeDir, ".sdb_cli", "logs", defaultLogFile)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
