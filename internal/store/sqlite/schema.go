package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS records (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		kind      TEXT NOT NULL,
		position  INTEGER NOT NULL,
		record_id TEXT NOT NULL,
		name      TEXT NOT NULL DEFAULT '',
		worldview TEXT NOT NULL DEFAULT '',
		content   TEXT NOT NULL DEFAULT '',
		body      TEXT NOT NULL,
		CONSTRAINT uq_record_position UNIQUE (kind, position)
	);

	CREATE TABLE IF NOT EXISTS history (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		scene_id    TEXT NOT NULL DEFAULT '',
		scene_name  TEXT NOT NULL DEFAULT '',
		worldview   TEXT NOT NULL DEFAULT '',
		interactive INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		items       TEXT NOT NULL DEFAULT '[]'
	);

	CREATE TABLE IF NOT EXISTS session (
		key        TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_records_kind_worldview ON records (kind, worldview);
	CREATE INDEX IF NOT EXISTS idx_records_record_id ON records (record_id);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history (created_at);

	CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
		name,
		content,
		content=records,
		content_rowid=id,
		tokenize='trigram'
	);

	CREATE TRIGGER IF NOT EXISTS records_ai AFTER INSERT ON records BEGIN
		INSERT INTO records_fts(rowid, name, content)
		VALUES (new.id, new.name, new.content);
	END;

	CREATE TRIGGER IF NOT EXISTS records_ad AFTER DELETE ON records BEGIN
		INSERT INTO records_fts(records_fts, rowid, name, content)
		VALUES ('delete', old.id, old.name, old.content);
	END;

	CREATE TRIGGER IF NOT EXISTS records_au AFTER UPDATE ON records BEGIN
		INSERT INTO records_fts(records_fts, rowid, name, content)
		VALUES ('delete', old.id, old.name, old.content);
		INSERT INTO records_fts(rowid, name, content)
		VALUES (new.id, new.name, new.content);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits DDL on lines ending in a semicolon. Trigger bodies
// are kept whole because their inner statements end mid-block.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasPrefix(strings.ToUpper(stripped), "CREATE TRIGGER") {
			inTrigger = true
		}
		if inTrigger {
			if strings.EqualFold(stripped, "END;") {
				inTrigger = false
				statements = append(statements, current.String())
				current.Reset()
			}
			continue
		}

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
