package config

import (
	"log/slog"
	"os"
)

// InitLogger installs a JSON slog handler on stderr as the default logger.
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
