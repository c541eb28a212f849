package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string
	// Pretty enables human-readable console output.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Configure sets up the process-wide logger.
func Configure(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	writer := cfg.Output
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the configured logger.
func Get() *zerolog.Logger {
	return &defaultLogger
}

func Debug() *zerolog.Event { return defaultLogger.Debug() }

func Info() *zerolog.Event { return defaultLogger.Info() }

func Warn() *zerolog.Event { return defaultLogger.Warn() }

func Error() *zerolog.Event { return defaultLogger.Error() }

// Fatal logs and exits the process.
func Fatal() *zerolog.Event { return defaultLogger.Fatal() }
