package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"panelstats/api/config"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

const clickHouseSchema = `
CREATE TABLE IF NOT EXISTS interaction_events (
	event_id    String,
	log_file    String,
	seq         UInt32,
	action      String,
	timestamp   Float64,
	position_x  Float64,
	position_y  Float64,
	received_at DateTime64(3)
) ENGINE = MergeTree ORDER BY (received_at, log_file, seq);

CREATE TABLE IF NOT EXISTS log_metrics (
	filename    String,
	num_actions UInt32,
	is_complete Bool,
	is_new      Bool,
	duration    Float64,
	received_at DateTime64(3)
) ENGINE = MergeTree ORDER BY (received_at, filename);

CREATE TABLE IF NOT EXISTS visit_rows (
	run_id           String,
	row_index        UInt32,
	session_id       UInt32,
	session_start    Float64,
	session_end      Nullable(Float64),
	session_duration Nullable(Float64),
	exhibit          String,
	exhibit_id       Nullable(Int64),
	event_start      Float64,
	event_end        Nullable(Float64),
	event_duration   Nullable(Float64),
	actions_count    UInt32
) ENGINE = MergeTree ORDER BY (run_id, row_index);

CREATE TABLE IF NOT EXISTS action_rows (
	run_id           String,
	row_index        UInt32,
	session_id       UInt32,
	session_start    Float64,
	session_end      Nullable(Float64),
	session_duration Nullable(Float64),
	exhibit          String,
	exhibit_id       Nullable(Int64),
	event_start      Float64,
	event_end        Nullable(Float64),
	event_duration   Nullable(Float64),
	actions_count    UInt32,
	action           String,
	item_id          Nullable(Int64),
	action_timestamp Float64,
	action_duration  Nullable(Float64)
) ENGINE = MergeTree ORDER BY (run_id, row_index);
`

func NewClickHouseDB(cfg config.ClickHouse) (*ClickHouseClient, error) {
	if cfg.Host == "" || cfg.NativePort == 0 || cfg.DBName == "" {
		return nil, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME environment variables are not set")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.NativePort)},
		Auth: clickhouse.Auth{
			Database: cfg.DBName,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "panelstats-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	if err := migrateClickHouse(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Println("Successfully connected to ClickHouse database via Native TCP!")
	return &ClickHouseClient{Conn: conn}, nil
}

// The native protocol takes one statement per Exec.
func migrateClickHouse(ctx context.Context, conn clickhouse.Conn) error {
	for _, stmt := range splitStatements(clickHouseSchema) {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create ClickHouse tables: %w", err)
		}
	}
	return nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		log.Println("ClickHouse connection closed.")
	}
}
