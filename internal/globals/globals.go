package globals

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const LevelTrace = slog.Level(-8)

var (
	// Global instances
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// ParseLevel maps a level name to a slog level. Unknown values mean info; the
// CLI rejects them before they get here.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger configures the global logger to write to stderr at the given level.
func SetupLogger(level string) {
	SetupLoggerWithWriter(os.Stderr, level)
}

func SetupLoggerWithWriter(w io.Writer, level string) {
	Logger = slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.DateTime,
	}))

	// Set as default logger
	slog.SetDefault(Logger)
}
