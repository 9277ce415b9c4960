// Package obs contains observability utilities such as logging.
package obs

import (
	"log/slog"
	"os"
)

// NewLogger builds the JSON structured logger used across the service and
// installs it as the slog default.
func NewLogger() *slog.Logger {
	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(l)
	return l
}
