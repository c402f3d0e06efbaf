package store

import (
	"context"
	"errors"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/session"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	LoadDataset(ctx context.Context) (*dataset.Dataset, error)
	ReplaceDataset(ctx context.Context, d *dataset.Dataset) error
	ListRecords(ctx context.Context, kind dataset.Kind, worldview string) ([]RecordSummary, error)
	ListWorldviews(ctx context.Context) ([]WorldviewSummary, error)
	Search(ctx context.Context, query string, kind dataset.Kind, worldview string) ([]SearchResult, error)

	AppendHistory(ctx context.Context, s *story.Story) error
	ListHistory(ctx context.Context) ([]story.Story, error)
	GetHistory(ctx context.Context, id string) (*story.Story, error)
	RenameHistory(ctx context.Context, id, title string) error
	DeleteHistory(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) (int64, error)

	LoadSession(ctx context.Context) (session.State, error)
	SaveSession(ctx context.Context, s session.State) error
}

// SQLRunner is implemented by the SQL backends for ad hoc debugging queries.
type SQLRunner interface {
	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
