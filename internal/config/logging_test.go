package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"signpost-2026-01-01T00-00-00.000.log",
		"signpost-2026-01-02T00-00-00.000.log",
		"signpost-2026-01-03T00-00-00.000.log",
		"unrelated.txt",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	require.NoError(t, cleanupOldLogs(dir, 2))

	remaining, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
	assert.NoFileExists(t, filepath.Join(dir, names[0]))
	assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))
}

func TestNewLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Environment: "prod", LogDir: dir, LogMaxFiles: 5}

	var stdout bytes.Buffer
	logger, closer, err := NewLogger(cfg, &stdout)
	require.NoError(t, err)

	logger.Info("hello", "site_id", "abc")
	logger.Debug("hidden in prod")
	require.NoError(t, closer.Close())

	assert.Contains(t, stdout.String(), `"site_id":"abc"`)
	assert.NotContains(t, stdout.String(), "hidden in prod")

	files, err := filepath.Glob(filepath.Join(dir, "signpost-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
