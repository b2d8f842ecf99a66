package logging

import (
	"log/slog"
	"os"
)

// Init configures the process-wide logger. Multi-site runs are long and
// strictly sequential, so per-site progress is visible at the default
// level; verbose adds stage-level debug detail.
func Init(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
