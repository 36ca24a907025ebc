package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the root logger from the logging configuration.
// Components derive their own sub-loggers from this one.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out = zerolog.New(os.Stdout)
	if cfg.Format == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	return out.With().Timestamp().Str("app", "boutique").Logger()
}
