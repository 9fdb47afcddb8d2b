package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestWatchSystemAppliesFreshSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.json")
	writeSettings(t, path, `{"search_timeout_ms":5000,"log_level":"info"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan *SystemConfig, 1)
	require.NoError(t, WatchSystem(ctx, path, func(sys *SystemConfig) {
		select {
		case applied <- sys:
		default:
		}
	}))

	writeSettings(t, path, `{"search_timeout_ms":250,"log_level":"debug"}`)

	select {
	case sys := <-applied:
		assert.Equal(t, "debug", sys.LogLevel)
		assert.Equal(t, 250, sys.SearchTimeoutMs)
	case <-time.After(5 * time.Second):
		t.Fatal("settings change was never applied")
	}
}

func TestWatchSystemBadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "system.json")
	err := WatchSystem(context.Background(), path, func(*SystemConfig) {})
	assert.Error(t, err)
}
