package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/store"
)

func (c *Client) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	raw, err := c.rdb.Get(ctx, keyDataset).Bytes()
	if errors.Is(err, redis.Nil) {
		d := &dataset.Dataset{}
		d.Normalize()
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	var d dataset.Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshaling dataset: %w", err)
	}
	d.Normalize()
	return &d, nil
}

func (c *Client) ReplaceDataset(ctx context.Context, d *dataset.Dataset) error {
	out := d.Clone()
	out.Normalize()
	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling dataset: %w", err)
	}
	if err := c.rdb.Set(ctx, keyDataset, raw, 0).Err(); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	return nil
}

func (c *Client) ListRecords(ctx context.Context, kind dataset.Kind, worldview string) ([]store.RecordSummary, error) {
	d, err := c.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return store.Summaries(d, kind, worldview), nil
}

func (c *Client) ListWorldviews(ctx context.Context) ([]store.WorldviewSummary, error) {
	d, err := c.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	return store.CountWorldviews(d), nil
}

func (c *Client) Search(ctx context.Context, query string, kind dataset.Kind, worldview string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	d, err := c.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := store.Rows(d)
	if err != nil {
		return nil, err
	}
	return store.MatchRows(rows, query, kind, worldview), nil
}
