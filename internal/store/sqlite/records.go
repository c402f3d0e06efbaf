package sqlite

import (
	"context"
	"fmt"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

func (c *Client) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT kind, position, record_id, body
	FROM records
	ORDER BY kind, position
	`)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var r store.Row
		if err := rows.Scan(&r.Kind, &r.Position, &r.ID, &r.Body); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return store.Assemble(out)
}

// ReplaceDataset swaps the stored records for d in one transaction.
func (c *Client) ReplaceDataset(ctx context.Context, d *dataset.Dataset) error {
	rows, err := store.Rows(d)
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO records (kind, position, record_id, name, worldview, content, body)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Kind, r.Position, r.ID, r.Name, r.Worldview, r.Text, string(r.Body)); err != nil {
			return fmt.Errorf("inserting %s %s: %w", r.Kind, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

func (c *Client) ListRecords(ctx context.Context, kind dataset.Kind, worldview string) ([]store.RecordSummary, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT kind, position, record_id, name, worldview
	FROM records
	WHERE (? = '' OR kind = ?)
	  AND (? = '' OR worldview = ?)
	ORDER BY CASE kind WHEN 'scene' THEN 0 WHEN 'layer' THEN 1 WHEN 'play' THEN 2 ELSE 3 END, position
	`, kind, kind, worldview, worldview)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	results := []store.RecordSummary{}
	for rows.Next() {
		var r store.RecordSummary
		if err := rows.Scan(&r.Kind, &r.Position, &r.ID, &r.Name, &r.Worldview); err != nil {
			return nil, fmt.Errorf("scanning record summary: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record summaries: %w", err)
	}
	return results, nil
}

func (c *Client) ListWorldviews(ctx context.Context) ([]store.WorldviewSummary, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT CASE WHEN worldview = '' THEN ? ELSE worldview END AS wv,
	       SUM(kind = 'scene'), SUM(kind = 'layer'), SUM(kind = 'play'), SUM(kind = 'command')
	FROM records
	GROUP BY wv
	ORDER BY wv
	`, dataset.DefaultWorldview)
	if err != nil {
		return nil, fmt.Errorf("listing worldviews: %w", err)
	}
	defer rows.Close()

	results := []store.WorldviewSummary{}
	for rows.Next() {
		var w store.WorldviewSummary
		if err := rows.Scan(&w.Worldview, &w.Scenes, &w.Layers, &w.Plays, &w.Commands); err != nil {
			return nil, fmt.Errorf("scanning worldview: %w", err)
		}
		results = append(results, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating worldviews: %w", err)
	}
	return results, nil
}
