package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
)

// LoadSession returns the saved state, or the zero state when none exists.
func (c *Client) LoadSession(ctx context.Context) (session.State, error) {
	raw, err := c.rdb.Get(ctx, keySession).Bytes()
	if errors.Is(err, redis.Nil) {
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
	if err := c.rdb.Set(ctx, keySession, raw, 0).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
