// Package redis stores dramaweaver data as JSON values under dramaweaver:*
// keys.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

const (
	keyDataset       = "dramaweaver:dataset"
	keySession       = "dramaweaver:session"
	keyHistoryIndex  = "dramaweaver:history"
	keyHistoryPrefix = "dramaweaver:history:"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	rdb *redis.Client
}

func New(ctx context.Context, dsn string) (*Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.rdb.Close()
}

// EnsureSchema is a no-op; keys are created on first write.
func (c *Client) EnsureSchema(ctx context.Context) error {
	return nil
}

func historyKey(id string) string {
	return keyHistoryPrefix + id
}
