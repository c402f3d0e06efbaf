package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
)

const sessionKey = "current"

// LoadSession returns the saved state, or the zero state when none exists.
func (c *Client) LoadSession(ctx context.Context) (session.State, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT state FROM session WHERE key = ?`, sessionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return session.State{}, nil
	}
	if err != nil {
		return session.State{}, fmt.Errorf("loading session: %w", err)
	}

	var s session.State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return session.State{}, fmt.Errorf("unmarshaling session: %w", err)
	}
	return s, nil
}

func (c *Client) SaveSession(ctx context.Context, s session.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
	INSERT INTO session (key, state, updated_at)
	VALUES (?, ?, datetime('now'))
	ON CONFLICT (key) DO UPDATE SET
		state = excluded.state,
		updated_at = datetime('now')
	`, sessionKey, string(raw))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
