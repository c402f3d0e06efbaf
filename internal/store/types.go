package store

import "github.com/guyeu9/Interactive-story-game-editor/internal/dataset"

// RecordSummary identifies one stored record. Position is the record's index
// within its kind; IDs alone are not unique in unrepaired data.
type RecordSummary struct {
	Kind      dataset.Kind `json:"kind"`
	Position  int          `json:"position"`
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Worldview string       `json:"worldview"`
}

type WorldviewSummary struct {
	Worldview string `json:"worldview"`
	Scenes    int    `json:"scenes"`
	Layers    int    `json:"layers"`
	Plays     int    `json:"plays"`
	Commands  int    `json:"commands"`
}

type SearchResult struct {
	RecordSummary
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}
