// Package log is the process-wide slog setup shared by the mannequin
// server and its command line tools.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the handler used for log records.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	logger *slog.Logger
)

// Init installs the default logger at the given level. MANNEQUIN_LOG_FORMAT
// or GO_ENV=production switch records to JSON. Calling Init again replaces
// the handler, which lets a CLI flag override an earlier default.
func Init(lvl string) {
	Setup(os.Stdout, ParseLevel(lvl), formatFromEnv())
}

// Setup installs a logger writing to w. Tests use it to capture output.
func Setup(w io.Writer, lvl slog.Level, f Format) *slog.Logger {
	level.Set(lvl)
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if f == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	l := slog.New(h)
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

func formatFromEnv() Format {
	switch strings.ToLower(os.Getenv("MANNEQUIN_LOG_FORMAT")) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	}
	if os.Getenv("GO_ENV") == "production" {
		return FormatJSON
	}
	return FormatText
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// SetLevel changes the level of the installed logger without replacing it.
func SetLevel(lvl slog.Level) { level.Set(lvl) }

// Level reports the current level.
func Level() slog.Level { return level.Level() }

// L returns the installed logger, creating an info-level text logger on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	return Setup(os.Stdout, slog.LevelInfo, formatFromEnv())
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// With returns the installed logger with attrs attached.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
