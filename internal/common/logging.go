package common

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger shared by every command.
// --quiet limits output to errors, --verbose enables debug records.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
