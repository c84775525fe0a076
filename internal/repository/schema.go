package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status TEXT NOT NULL,
	severity TEXT NOT NULL,
	description TEXT NOT NULL,
	contact TEXT NOT NULL DEFAULT '',
	product_tags TEXT,
	category_tags TEXT,
	created_at TIMESTAMP NOT NULL,
	resolved_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS feedback (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ticket_id INTEGER,
	platform TEXT NOT NULL,
	product TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	acknowledged BOOLEAN,
	shipped BOOLEAN,
	shipped_date TIMESTAMP,
	created_at TIMESTAMP NOT NULL
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tickets (
	id BIGSERIAL PRIMARY KEY,
	status TEXT NOT NULL,
	severity TEXT NOT NULL,
	description TEXT NOT NULL,
	contact TEXT NOT NULL DEFAULT '',
	product_tags TEXT,
	category_tags TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	resolved_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS feedback (
	id BIGSERIAL PRIMARY KEY,
	ticket_id BIGINT,
	platform TEXT NOT NULL,
	product TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	acknowledged BOOLEAN,
	shipped BOOLEAN,
	shipped_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);`

// Migrate creates the tables for the given driver if they do not exist.
// Tag columns are TEXT holding a JSON-encoded array (or NULL when empty),
// matching the legacy dashboard's storage format.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == "postgres" {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
