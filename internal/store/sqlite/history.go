package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

// timeLayout has fixed-width fractions so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (c *Client) AppendHistory(ctx context.Context, s *story.Story) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("marshaling story items: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO history (id, title, scene_id, scene_name, worldview, interactive, created_at, items)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Title, s.SceneID, s.SceneName, s.Worldview, s.Interactive, s.CreatedAt.UTC().Format(timeLayout), string(items))
	if err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// ListHistory returns stored stories, newest first.
func (c *Client) ListHistory(ctx context.Context) ([]story.Story, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT id, title, scene_id, scene_name, worldview, interactive, created_at, items
	FROM history
	ORDER BY created_at DESC, rowid DESC
	`)
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
	row := c.db.QueryRowContext(ctx, `
	SELECT id, title, scene_id, scene_name, worldview, interactive, created_at, items
	FROM history
	WHERE id = ?
	`, id)
	s, err := scanStory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history %s: %w", id, store.ErrNotFound)
	}
	return s, err
}

func (c *Client) RenameHistory(ctx context.Context, id, title string) error {
	res, err := c.db.ExecContext(ctx, `UPDATE history SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("renaming history: %w", err)
	}
	return requireAffected(res, id)
}

func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting history: %w", err)
	}
	return requireAffected(res, id)
}

func (c *Client) ClearHistory(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared history: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStory(row scanner) (*story.Story, error) {
	var s story.Story
	var createdAt, items string
	err := row.Scan(&s.ID, &s.Title, &s.SceneID, &s.SceneName, &s.Worldview, &s.Interactive, &createdAt, &items)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning history: %w", err)
	}
	s.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing history time: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling story items: %w", err)
	}
	return &s, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("history %s: %w", id, store.ErrNotFound)
	}
	return nil
}
