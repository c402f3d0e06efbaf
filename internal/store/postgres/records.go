package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

const kindOrder = `CASE kind WHEN 'scene' THEN 0 WHEN 'layer' THEN 1 WHEN 'play' THEN 2 ELSE 3 END`

func (c *Client) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := c.pool.Query(ctx, `SELECT kind, position, record_id, body FROM records`)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	var out []store.Row
	for rows.Next() {
		var r store.Row
		var kind string
		if err := rows.Scan(&kind, &r.Position, &r.ID, &r.Body); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Kind = dataset.Kind(kind)
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

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
INSERT INTO records (kind, position, record_id, name, worldview, content, body)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
`, string(r.Kind), r.Position, r.ID, r.Name, r.Worldview, r.Text, string(r.Body))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}

func (c *Client) ListRecords(ctx context.Context, kind dataset.Kind, worldview string) ([]store.RecordSummary, error) {
	rows, err := c.pool.Query(ctx, `
SELECT kind, position, record_id, name, worldview
FROM records
WHERE ($1 = '' OR kind = $1)
  AND ($2 = '' OR worldview = $2)
ORDER BY `+kindOrder+`, position
`, string(kind), worldview)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	results := []store.RecordSummary{}
	for rows.Next() {
		r, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record summaries: %w", err)
	}
	return results, nil
}

func (c *Client) ListWorldviews(ctx context.Context) ([]store.WorldviewSummary, error) {
	rows, err := c.pool.Query(ctx, `
SELECT CASE WHEN worldview = '' THEN $1 ELSE worldview END AS wv,
       COUNT(*) FILTER (WHERE kind = 'scene'),
       COUNT(*) FILTER (WHERE kind = 'layer'),
       COUNT(*) FILTER (WHERE kind = 'play'),
       COUNT(*) FILTER (WHERE kind = 'command')
FROM records
GROUP BY wv
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
	sort.Slice(results, func(i, j int) bool { return results[i].Worldview < results[j].Worldview })
	return results, nil
}

func scanSummary(rows pgx.Rows) (store.RecordSummary, error) {
	var r store.RecordSummary
	var kind string
	if err := rows.Scan(&kind, &r.Position, &r.ID, &r.Name, &r.Worldview); err != nil {
		return r, fmt.Errorf("scanning record summary: %w", err)
	}
	r.Kind = dataset.Kind(kind)
	return r, nil
}
