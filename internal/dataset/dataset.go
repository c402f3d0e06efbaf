// Package dataset holds the record types shared by every dramaweaver
// component along with small helpers over whole datasets.
package dataset

import (
	"encoding/json"
	"slices"
	"sort"
)

// DefaultWorldview is the label used for records whose worldview is empty.
const DefaultWorldview = "默认世界观"

type Scene struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Worldview   string          `json:"worldview"`
	Choices     json.RawMessage `json:"choices,omitempty"`
}

type Layer struct {
	ID        string `json:"layer_id"`
	Name      string `json:"layer_name"`
	Sequence  int    `json:"sequence"`
	Worldview string `json:"worldview"`
}

type Play struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	TriggerCondition string   `json:"trigger_condition"`
	Result           string   `json:"result"`
	LayerID          string   `json:"fk_layer_id"`
	Tags             []string `json:"tags"`
	Worldview        string   `json:"worldview"`
}

type Command struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Probability int       `json:"probability"`
	ScopeType   ScopeType `json:"scope_type"`
	TargetIDs   string    `json:"fk_target_id"`
	Worldview   string    `json:"worldview"`
}

// Targets returns the trimmed foreign IDs of the command.
func (c Command) Targets() []string {
	return SplitTargetIDs(c.TargetIDs)
}

type Dataset struct {
	Scenes   []Scene   `json:"scenes"`
	Layers   []Layer   `json:"layers"`
	Plays    []Play    `json:"plays"`
	Commands []Command `json:"commands"`
}

// Clone returns a deep enough copy that appending to or editing records of
// the clone never touches d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Scenes:   make([]Scene, len(d.Scenes)),
		Layers:   slices.Clone(d.Layers),
		Plays:    make([]Play, len(d.Plays)),
		Commands: slices.Clone(d.Commands),
	}
	if out.Layers == nil {
		out.Layers = []Layer{}
	}
	if out.Commands == nil {
		out.Commands = []Command{}
	}
	for i, scene := range d.Scenes {
		scene.Tags = slices.Clone(scene.Tags)
		out.Scenes[i] = scene
	}
	for i, play := range d.Plays {
		play.Tags = slices.Clone(play.Tags)
		out.Plays[i] = play
	}
	return out
}

func (d *Dataset) Len(kind Kind) int {
	switch kind {
	case KindScene:
		return len(d.Scenes)
	case KindLayer:
		return len(d.Layers)
	case KindPlay:
		return len(d.Plays)
	case KindCommand:
		return len(d.Commands)
	}
	return 0
}

// IDs returns the identifiers of every record of kind in list order.
func (d *Dataset) IDs(kind Kind) []string {
	var ids []string
	switch kind {
	case KindScene:
		for _, s := range d.Scenes {
			ids = append(ids, s.ID)
		}
	case KindLayer:
		for _, l := range d.Layers {
			ids = append(ids, l.ID)
		}
	case KindPlay:
		for _, p := range d.Plays {
			ids = append(ids, p.ID)
		}
	case KindCommand:
		for _, c := range d.Commands {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Duplicates returns every ID of kind that appears more than once, in order
// of first repeat.
func (d *Dataset) Duplicates(kind Kind) []string {
	seen := make(map[string]int)
	var dups []string
	for _, id := range d.IDs(kind) {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

// HasDuplicates reports whether any kind holds a repeated ID.
func (d *Dataset) HasDuplicates() bool {
	for _, kind := range Kinds {
		if len(d.Duplicates(kind)) > 0 {
			return true
		}
	}
	return false
}

func (d *Dataset) SceneByID(id string) (Scene, bool) {
	for _, s := range d.Scenes {
		if s.ID == id {
			return s, true
		}
	}
	return Scene{}, false
}

func (d *Dataset) LayerByID(id string) (Layer, bool) {
	for _, l := range d.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// Worldviews returns the distinct non-empty scene worldviews, sorted.
func (d *Dataset) Worldviews() []string {
	set := make(map[string]struct{})
	for _, s := range d.Scenes {
		if s.Worldview != "" {
			set[s.Worldview] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// FilterWorldview returns the records whose worldview equals w.
func (d *Dataset) FilterWorldview(w string) *Dataset {
	out := &Dataset{Scenes: []Scene{}, Layers: []Layer{}, Plays: []Play{}, Commands: []Command{}}
	for _, s := range d.Scenes {
		if s.Worldview == w {
			out.Scenes = append(out.Scenes, s)
		}
	}
	for _, l := range d.Layers {
		if l.Worldview == w {
			out.Layers = append(out.Layers, l)
		}
	}
	for _, p := range d.Plays {
		if p.Worldview == w {
			out.Plays = append(out.Plays, p)
		}
	}
	for _, c := range d.Commands {
		if c.Worldview == w {
			out.Commands = append(out.Commands, c)
		}
	}
	return out
}

// Remove deletes every record of kind with the given ID and reports how many
// were removed.
func (d *Dataset) Remove(kind Kind, id string) int {
	before := d.Len(kind)
	switch kind {
	case KindScene:
		d.Scenes = slices.DeleteFunc(d.Scenes, func(s Scene) bool { return s.ID == id })
	case KindLayer:
		d.Layers = slices.DeleteFunc(d.Layers, func(l Layer) bool { return l.ID == id })
	case KindPlay:
		d.Plays = slices.DeleteFunc(d.Plays, func(p Play) bool { return p.ID == id })
	case KindCommand:
		d.Commands = slices.DeleteFunc(d.Commands, func(c Command) bool { return c.ID == id })
	}
	return before - d.Len(kind)
}

// SortLayers orders layers by sequence, keeping the relative order of equal
// sequences.
func (d *Dataset) SortLayers() {
	sort.SliceStable(d.Layers, func(i, j int) bool {
		return d.Layers[i].Sequence < d.Layers[j].Sequence
	})
}

// Normalize replaces nil lists with empty ones so encoded output always
// carries all four keys as arrays.
func (d *Dataset) Normalize() {
	if d.Scenes == nil {
		d.Scenes = []Scene{}
	}
	if d.Layers == nil {
		d.Layers = []Layer{}
	}
	if d.Plays == nil {
		d.Plays = []Play{}
	}
	if d.Commands == nil {
		d.Commands = []Command{}
	}
	for i := range d.Commands {
		d.Commands[i].ScopeType = NormalizeScope(string(d.Commands[i].ScopeType))
	}
}
