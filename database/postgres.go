package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type DBClient struct {
	DB *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS operators (
	id              SERIAL PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	hashed_password BYTEA NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS processing_runs (
	id                  UUID PRIMARY KEY,
	window_from         TIMESTAMPTZ NOT NULL,
	window_to           TIMESTAMPTZ NOT NULL,
	event_count         INTEGER NOT NULL,
	session_count       INTEGER NOT NULL,
	visit_count         INTEGER NOT NULL,
	action_count        INTEGER NOT NULL,
	record_content_open BOOLEAN NOT NULL DEFAULT false,
	created_by          INTEGER REFERENCES operators(id),
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func NewPostgresDB(dbURL string) (*DBClient, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database (ping failed): %w", err)
	}

	if err := MigratePostgres(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Successfully connected to PostgreSQL database!")
	return &DBClient{DB: db}, nil
}

func MigratePostgres(db *sql.DB) error {
	for _, stmt := range splitStatements(postgresSchema) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create PostgreSQL tables: %w", err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	var stmts []string
	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (c *DBClient) Close() {
	if c.DB != nil {
		err := c.DB.Close()
		if err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("PostgreSQL database connection closed.")
		}
	}
}
