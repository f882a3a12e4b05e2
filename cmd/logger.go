package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jfmyers9/livesign/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// setupLogger creates a logger writing to out at the given level
func setupLogger(out io.Writer, level string) zerolog.Logger {
	// Parse log level
	lvl := zerolog.WarnLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	logger := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	// Use pretty console output on a terminal stream
	if out == os.Stderr {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return logger
}

// loadConfig loads configuration and builds the command logger, applying
// the --log-level override
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}

	return cfg, setupLogger(cmd.ErrOrStderr(), level), nil
}

// signerLogger adapts zerolog to livesign.Logger
type signerLogger struct {
	log zerolog.Logger
}

func (l signerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l signerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}
