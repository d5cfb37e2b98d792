package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelstats/api/config"
)

func TestNewClickHouseDB_MissingConfig(t *testing.T) {
	client, err := NewClickHouseDB(config.ClickHouse{Host: "localhost"})
	assert.Nil(t, client)
	assert.Error(t, err)
}

// Opening is lazy, so an unreachable server is only noticed by Ping.
func TestNewClickHouseDB_Unreachable(t *testing.T) {
	client, err := NewClickHouseDB(config.ClickHouse{
		Host:       "127.0.0.1",
		NativePort: 1,
		DBName:     "panelstats",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping ClickHouse")
	assert.Nil(t, client)
}
