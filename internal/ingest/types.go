package ingest

import (
	"log/slog"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

// Hint maps a substring of a scene name to the worldview it implies.
type Hint struct {
	Match     string
	Worldview string
}

// DefaultHints are the known story titles recognised in scene names.
var DefaultHints = []Hint{
	{Match: "王勇和体育生", Worldview: "王勇和体育生故事"},
	{Match: "月王", Worldview: "月王故事"},
}

type Options struct {
	// Hints override DefaultHints when non-nil.
	Hints []Hint
	// DefaultWorldview labels records with an empty worldview during repair.
	DefaultWorldview string
	// RelinkReferences rewrites foreign keys to repaired IDs when the old
	// ID was unambiguous.
	RelinkReferences bool
	DryRun           bool
	Exclude          []string
	Logger           *slog.Logger
}

func (o Options) hints() []Hint {
	if o.Hints != nil {
		return o.Hints
	}
	return DefaultHints
}

func (o Options) fallbackWorldview() string {
	if o.DefaultWorldview != "" {
		return o.DefaultWorldview
	}
	return dataset.DefaultWorldview
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
