package configs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines configuration options for the structured logger. The
// Level controls the minimum level emitted by the logger. Valid values
// include "debug", "info", "warn" and "error". Format determines the
// output encoding and may be "text" (default) or "json". An unknown
// format falls back to "text". When File is set, output goes through a
// size-rotated file instead of stdout.
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`

	File       string `env:"FILE" envDefault:""`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"28"`
}

// SlogLevel converts the textual level into a slog.Level. Unknown levels
// default to slog.LevelInfo.
func (c Logger) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogFormat validates and normalises the requested log format. Supported
// formats are "text" and "json". Any other value returns "text".
func (c Logger) SlogFormat() string {
	switch strings.ToLower(c.Format) {
	case "json":
		return "json"
	default:
		return "text"
	}
}

// Writer returns the destination log output: stdout by default, or a
// rotated file when File is configured.
func (c Logger) Writer() io.Writer {
	if c.File == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   true,
	}
}
