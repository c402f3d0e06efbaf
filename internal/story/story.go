// Package story turns a dataset into story flows, either generated in one
// pass or walked through layer by layer.
package story

import (
	"time"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

type ItemType string

const (
	ItemHeader  ItemType = "header"
	ItemPlay    ItemType = "play"
	ItemCommand ItemType = "command"
)

// headerPrefix precedes the scene name in header items.
const headerPrefix = "场景："

// interactiveSuffix is appended to the title of walked-through stories.
const interactiveSuffix = " (剧情走向)"

// Item is one entry of a story flow. Which fields are set depends on Type.
type Item struct {
	Type      ItemType `json:"type"`
	Text      string   `json:"text,omitempty"`
	Desc      string   `json:"desc,omitempty"`
	LayerName string   `json:"layerName,omitempty"`
	Title     string   `json:"title,omitempty"`
	Content   string   `json:"content,omitempty"`
	Result    string   `json:"result,omitempty"`
	Scope     string   `json:"scope,omitempty"`
}

// Story is a finished flow as kept in history. Title starts out as the scene
// name and may be renamed later.
type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SceneID     string    `json:"scene_id"`
	SceneName   string    `json:"scene_name"`
	Worldview   string    `json:"worldview"`
	Interactive bool      `json:"interactive"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []Item    `json:"items"`
}

func headerItem(s dataset.Scene) Item {
	return Item{Type: ItemHeader, Text: headerPrefix + s.Name, Desc: s.Description}
}

func playItem(l dataset.Layer, p dataset.Play) Item {
	return Item{
		Type:      ItemPlay,
		LayerName: l.Name,
		Title:     p.Name,
		Content:   p.Description,
		Result:    p.Result,
	}
}

func commandItem(c dataset.Command) Item {
	return Item{
		Type:    ItemCommand,
		Title:   c.Name,
		Content: c.Description,
		Scope:   string(c.ScopeType),
	}
}
