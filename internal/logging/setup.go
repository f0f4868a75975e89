package logging

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
)

// logFilePerm keeps per-run JSON logs private to the invoking user.
const logFilePerm = 0o600

// GenerateRunID returns a fresh ULID identifying one CLI invocation.
func GenerateRunID() string {
	return ulid.Make().String()
}

// Setup initializes the default logger. level names the minimum slog level;
// jsonPath, when non-empty, adds a JSON file handler carrying the run ID on
// every record. Returns the invalid-level condition separately so callers
// can warn once the logger exists.
func Setup(level, jsonPath, runID string) error {
	var slogLevel slog.Level
	invalidLevel := false
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		slogLevel = slog.LevelInfo
		invalidLevel = true
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}),
	}

	if jsonPath != "" {
		logF, err := os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm) // #nosec G304 -- destination chosen by the user
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		jsonHandler := slog.NewJSONHandler(logF, &slog.HandlerOptions{Level: slogLevel})
		handlers = append(handlers, jsonHandler.WithAttrs([]slog.Attr{
			slog.String("run_id", runID),
			slog.Int("pid", os.Getpid()),
		}))
	}

	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))

	if invalidLevel {
		slog.Warn("Invalid log level provided, defaulting to INFO", "provided", level)
	}
	return nil
}
