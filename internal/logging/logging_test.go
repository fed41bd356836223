package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose", "")
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "makersim.log")

	logger, err := New("info", path)
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync() // stderr sync may fail on some platforms, the file still flushes

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(payload), "hello")
}

func TestNewWithoutFile(t *testing.T) {
	logger, err := New("debug", "")
	require.NoError(t, err)
	logger.Debug("stderr only")
}
