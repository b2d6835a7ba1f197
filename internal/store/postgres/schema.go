package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS mobile_workers (
	id          TEXT PRIMARY KEY,
	domain      TEXT NOT NULL,
	username    TEXT NOT NULL,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	created_on  TIMESTAMPTZ,
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	UNIQUE (domain, username)
);
CREATE INDEX IF NOT EXISTS mobile_workers_domain_active ON mobile_workers (domain, is_active, username);

CREATE TABLE IF NOT EXISTS locations (
	id         TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	parent_id  TEXT REFERENCES locations (id),
	name       TEXT NOT NULL,
	archived   BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS locations_domain ON locations (domain) WHERE NOT archived;
`

// Migrate creates the tables the repositories read from.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
