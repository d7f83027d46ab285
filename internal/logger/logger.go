package logger

import (
	"log/slog"
	"os"

	"peopledesk/internal/config"
)

// New creates the process-wide logger. Production gets JSON output, anything
// else gets the text handler for readability. The returned logger is also
// installed as the slog default.
func New(cfg config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.Server.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	logger := slog.New(handler).With(
		"service", cfg.Telemetry.ServiceName,
		"version", cfg.Telemetry.ServiceVersion,
		"environment", cfg.Server.Environment,
	)

	slog.SetDefault(logger)

	return logger
}
