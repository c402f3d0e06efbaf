package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
)

const sessionKey = "current"

// LoadSession returns the saved state, or the zero state when none exists.
func (c *Client) LoadSession(ctx context.Context) (session.State, error) {
	var raw []byte
	err := c.pool.QueryRow(ctx, `SELECT state FROM session WHERE key = $1`, sessionKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.State{}, nil
	}
	if err != nil {
		return session.State{}, fmt.Errorf("loading session: %w", err)
	}

	var s session.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return session.State{}, fmt.Errorf("unmarshaling session: %w", err)
	}
	return s, nil
}

func (c *Client) SaveSession(ctx context.Context, s session.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	_, err = c.pool.Exec(ctx, `
INSERT INTO session (key, state, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE SET
    state = EXCLUDED.state,
    updated_at = now()
`, sessionKey, string(raw))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
