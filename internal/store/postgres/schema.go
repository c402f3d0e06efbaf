package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS records (
    id        BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    kind      TEXT NOT NULL,
    position  INTEGER NOT NULL,
    record_id TEXT NOT NULL,
    name      TEXT NOT NULL DEFAULT '',
    worldview TEXT NOT NULL DEFAULT '',
    content   TEXT NOT NULL DEFAULT '',
    body      JSONB NOT NULL,
    CONSTRAINT uq_record_position UNIQUE (kind, position)
);

CREATE TABLE IF NOT EXISTS history (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    scene_id    TEXT NOT NULL DEFAULT '',
    scene_name  TEXT NOT NULL DEFAULT '',
    worldview   TEXT NOT NULL DEFAULT '',
    interactive BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL,
    items       JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS session (
    key        TEXT PRIMARY KEY,
    state      JSONB NOT NULL,
    updated_at TIMESTAMPTZ DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_records_kind_worldview ON records (kind, worldview);
CREATE INDEX IF NOT EXISTS idx_records_record_id ON records (record_id);
CREATE INDEX IF NOT EXISTS idx_history_created ON history (created_at);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
