package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the process-wide zerolog logger. Everything else logs
// through the zerolog/log global, so this runs once, before anything
// writes a line.
func Setup(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	log.Logger = logger.
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
