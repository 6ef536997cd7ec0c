package logger

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel adjusts the process-wide minimum level once configuration is
// loaded. The logger itself carries no level so this takes effect on
// every derived logger.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

var Module = fx.Provide(New)
