package repository

import (
	"context"
	"fmt"
)

const schema = `
	CREATE TABLE IF NOT EXISTS pois (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		type          TEXT NOT NULL,
		lat           DOUBLE PRECISION NOT NULL,
		lng           DOUBLE PRECISION NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		image_url     TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		website       TEXT NOT NULL DEFAULT '',
		opening_hours TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		zip_code      TEXT NOT NULL DEFAULT '',
		city          TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS route_info (
		id            INTEGER PRIMARY KEY,
		distance      TEXT NOT NULL DEFAULT '',
		duration      TEXT NOT NULL DEFAULT '',
		difficulty    TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		partner_logos TEXT[] NOT NULL DEFAULT '{}',
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// EnsureSchema creates the pois and route_info tables when they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}
