// Package logging configures the zerolog logger used by askchat.
//
// The chat TUI owns the terminal, so logs always go to a rotated file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/diogo/askchat/internal/config"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Init builds a file-backed logger from cfg and installs it as the global
// zerolog logger. When the log directory cannot be created the returned
// logger discards everything, and the error is returned alongside it.
func Init(cfg config.Config, levelOverride string) (zerolog.Logger, error) {
	level := cfg.LogLevel
	if strings.TrimSpace(levelOverride) != "" {
		level = levelOverride
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return install(New(io.Discard, level)), err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return install(New(io.Discard, level)), err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	return install(New(writer, level)), nil
}

// New returns a JSON logger writing to out at the given level.
func New(out io.Writer, level string) zerolog.Logger {
	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func install(logger zerolog.Logger) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = logger
	return logger
}
