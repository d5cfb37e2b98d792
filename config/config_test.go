package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "RECORD_CONTENT_OPEN", "SHUTDOWN_TIMEOUT", "CLICKHOUSE_NATIVE_PORT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.RecordContentOpen)
}

func TestParse_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLICKHOUSE_HOST", "ch.local")
	t.Setenv("CLICKHOUSE_NATIVE_PORT", "9000")
	t.Setenv("CLICKHOUSE_DB_NAME", "panel")
	t.Setenv("RECORD_CONTENT_OPEN", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "ch.local", cfg.ClickHouse.Host)
	assert.Equal(t, 9000, cfg.ClickHouse.NativePort)
	assert.Equal(t, "panel", cfg.ClickHouse.DBName)
	assert.True(t, cfg.RecordContentOpen)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestParse_InvalidPort(t *testing.T) {
	t.Setenv("CLICKHOUSE_NATIVE_PORT", "nine")
	_, err := Parse()
	assert.Error(t, err)
}
