package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

const historyColumns = `id, title, scene_id, scene_name, worldview, interactive, created_at, items`

func (c *Client) AppendHistory(ctx context.Context, s *story.Story) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshaling story items: %w", err)
	}

	_, err = c.pool.Exec(ctx, `
INSERT INTO history (`+historyColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
`, s.ID, s.Title, s.SceneID, s.SceneName, s.Worldview, s.Interactive, s.CreatedAt, string(items))
	if err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// ListHistory returns stored stories, newest first.
func (c *Client) ListHistory(ctx context.Context) ([]story.Story, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+historyColumns+` FROM history ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	results := []story.Story{}
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return results, nil
}

func (c *Client) GetHistory(ctx context.Context, id string) (*story.Story, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+historyColumns+` FROM history WHERE id = $1`, id)
	s, err := scanStory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("history %s: %w", id, store.ErrNotFound)
	}
	return s, err
}

func (c *Client) RenameHistory(ctx context.Context, id, title string) error {
	tag, err := c.pool.Exec(ctx, `UPDATE history SET title = $1 WHERE id = $2`, title, id)
	if err != nil {
		return fmt.Errorf("renaming history: %w", err)
	}
	return requireAffected(tag, id)
}

func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting history: %w", err)
	}
	return requireAffected(tag, id)
}

func (c *Client) ClearHistory(ctx context.Context) (int64, error) {
	tag, err := c.pool.Exec(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanStory(row pgx.Row) (*story.Story, error) {
	var s story.Story
	var items []byte
	err := row.Scan(&s.ID, &s.Title, &s.SceneID, &s.SceneName, &s.Worldview, &s.Interactive, &s.CreatedAt, &items)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning history: %w", err)
	}
	if err := json.Unmarshal(items, &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling story items: %w", err)
	}
	return &s, nil
}

func requireAffected(tag pgconn.CommandTag, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("history %s: %w", id, store.ErrNotFound)
	}
	return nil
}
