package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process-wide logger. "pretty" renders a colored console
// stream for local development; any other format emits JSON lines for log
// shippers. Unknown levels fall back to info rather than failing startup.
func Setup(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var log zerolog.Logger
	if format == "pretty" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stdout)
	}

	// Every line carries the service name so the exam backend's output can
	// be told apart from sidecars sharing the same stream.
	return log.With().
		Timestamp().
		Caller().
		Str("service", "vaultexam").
		Logger()
}
