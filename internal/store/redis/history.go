package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

// AppendHistory stores the story and indexes it by creation time.
func (c *Client) AppendHistory(ctx context.Context, s *story.Story) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling story: %w", err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, historyKey(s.ID), raw, 0)
		pipe.ZAdd(ctx, keyHistoryIndex, redis.Z{Score: float64(s.CreatedAt.UnixMilli()), Member: s.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// ListHistory returns stored stories, newest first.
func (c *Client) ListHistory(ctx context.Context) ([]story.Story, error) {
	ids, err := c.rdb.ZRevRange(ctx, keyHistoryIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	results := []story.Story{}
	if len(ids) == 0 {
		return results, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = historyKey(id)
	}
	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var s story.Story
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("unmarshaling history %s: %w", ids[i], err)
		}
		results = append(results, s)
	}
	return results, nil
}

func (c *Client) GetHistory(ctx context.Context, id string) (*story.Story, error) {
	raw, err := c.rdb.Get(ctx, historyKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("history %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	var s story.Story
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshaling history %s: %w", id, err)
	}
	return &s, nil
}

func (c *Client) RenameHistory(ctx context.Context, id, title string) error {
	s, err := c.GetHistory(ctx, id)
	if err != nil {
		return err
	}
	s.Title = title
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling story: %w", err)
	}
	if err := c.rdb.Set(ctx, historyKey(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("renaming history: %w", err)
	}
	return nil
}

func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.ZRem(ctx, keyHistoryIndex, id)
		pipe.Del(ctx, historyKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting history: %w", err)
	}
	if removed.Val() == 0 {
		return fmt.Errorf("history %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) ClearHistory(ctx context.Context) (int64, error) {
	ids, err := c.rdb.ZRange(ctx, keyHistoryIndex, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("listing history: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, historyKey(id))
	}
	keys = append(keys, keyHistoryIndex)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return int64(len(ids)), nil
}
