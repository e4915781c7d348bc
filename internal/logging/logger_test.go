package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Info("save failed", "error", errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, `err="disk full"`)
	assert.NotContains(t, out, "error=")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, Level(true)).Debug("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	logger, closer, err := OpenFile(dir, slog.LevelInfo)
	require.NoError(t, err)
	logger.Info("hello", "note", "nt-1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "note=nt-1")
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("ignored") })
}
