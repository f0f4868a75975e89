package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefaultLogger puts the process-wide logger back after a Setup test.
func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestGenerateRunID(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()

	assert.Len(t, a, 26, "run IDs are ULIDs")
	assert.NotEqual(t, a, b)
}

func TestMultiHandler_FansOut(t *testing.T) {
	var bufA, bufB bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&bufA, nil),
		slog.NewJSONHandler(&bufB, nil),
	)

	logger := slog.New(m)
	logger.Info("payload generated", "mutator", "file_glob")

	assert.Contains(t, bufA.String(), "payload generated")
	assert.Contains(t, bufB.String(), `"mutator":"file_glob"`)
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, m.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(m)
	logger.Debug("details")

	assert.Contains(t, debugBuf.String(), "details")
	assert.Empty(t, warnBuf.String())
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	logger := slog.New(m.WithAttrs([]slog.Attr{slog.String("run_id", "r1")}))
	logger.Info("x")

	assert.Contains(t, buf.String(), "run_id=r1")
}

func TestMultiHandler_Handlers(t *testing.T) {
	h := slog.NewTextHandler(&bytes.Buffer{}, nil)
	m := NewMultiHandler(h)

	require.Len(t, m.Handlers(), 1)
}

func TestSetup_InvalidLevelFallsBack(t *testing.T) {
	restoreDefaultLogger(t)

	err := Setup("loud", "", "runid")
	assert.NoError(t, err)
}

func TestSetup_JSONFile(t *testing.T) {
	restoreDefaultLogger(t)

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, Setup("info", path, "runid-123"))

	slog.Info("hello")

	content, err := os.ReadFile(path) // #nosec G304 -- test-owned temp path
	require.NoError(t, err)
	assert.Contains(t, string(content), "runid-123")
}

func TestSetup_JSONFileOpenError(t *testing.T) {
	err := Setup("info", filepath.Join(t.TempDir(), "missing", "run.json"), "r")
	assert.Error(t, err)
}
