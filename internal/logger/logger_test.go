package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prefixrank.log")
	closer, err := Setup(Options{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = Setup(Options{})
	})

	assert.Equal(t, log.DebugLevel, log.GetLevel())
	New("test").Debug("inserted", "entry", "hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "inserted")
	assert.Contains(t, string(data), "entry=hello")
}

func TestSetupRejectsLevel(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestSetupDefaults(t *testing.T) {
	closer, err := Setup(Options{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.Equal(t, os.Stderr, Output())
}
