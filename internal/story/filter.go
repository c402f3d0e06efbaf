package story

import (
	"slices"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

// Filter restricts generation to one worldview. It only applies when enabled
// and a worldview is set.
type Filter struct {
	Worldview string `json:"worldview"`
	Enabled   bool   `json:"enabled"`
}

func (f Filter) Active() bool {
	return f.Enabled && f.Worldview != ""
}

// Apply returns the records visible under f. An inactive filter returns d
// itself.
func (f Filter) Apply(d *dataset.Dataset) *dataset.Dataset {
	if !f.Active() {
		return d
	}
	return d.FilterWorldview(f.Worldview)
}

// CommandApplies reports whether c may fire in the given scene and layer.
// GLOBAL commands always apply; SCENE and LAYER commands apply when the
// scene or layer ID is among their targets. Unknown scopes never apply.
func CommandApplies(c dataset.Command, sceneID, layerID string) bool {
	switch c.ScopeType {
	case dataset.ScopeGlobal:
		return true
	case dataset.ScopeScene:
		return slices.Contains(c.Targets(), sceneID)
	case dataset.ScopeLayer:
		return slices.Contains(c.Targets(), layerID)
	}
	return false
}

// TagScore counts the play tags shared with the scene.
func TagScore(p dataset.Play, s dataset.Scene) int {
	n := 0
	for _, t := range p.Tags {
		if slices.Contains(s.Tags, t) {
			n++
		}
	}
	return n
}

// ScorePlays returns the plays with the highest tag score against s, or all
// of plays when none shares a tag.
func ScorePlays(plays []dataset.Play, s dataset.Scene) []dataset.Play {
	best := 0
	scores := make([]int, len(plays))
	for i, p := range plays {
		scores[i] = TagScore(p, s)
		best = max(best, scores[i])
	}
	if best == 0 {
		return slices.Clone(plays)
	}
	var out []dataset.Play
	for i, p := range plays {
		if scores[i] == best {
			out = append(out, p)
		}
	}
	return out
}

func layerPlays(plays []dataset.Play, layerID string, used map[string]bool) []dataset.Play {
	var out []dataset.Play
	for _, p := range plays {
		if p.LayerID == layerID && !used[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func applicableCommands(cmds []dataset.Command, sceneID, layerID string, used map[string]bool) []dataset.Command {
	var out []dataset.Command
	for _, c := range cmds {
		if !used[c.ID] && CommandApplies(c, sceneID, layerID) {
			out = append(out, c)
		}
	}
	return out
}
