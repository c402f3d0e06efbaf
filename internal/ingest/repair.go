package ingest

import (
	"log/slog"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
)

// IDChange records one re-keyed record.
type IDChange struct {
	Kind      dataset.Kind
	Index     int
	Worldview string
	Name      string
	OldID     string
	NewID     string
}

type RepairResult struct {
	Dataset *dataset.Dataset
	Changes []IDChange
	// Relinked counts foreign key entries rewritten to repaired IDs.
	Relinked int
}

// Repair assigns a fresh ID to every record of d. Records are allocated one
// worldview group at a time so a group shares its prefix, and each record
// keeps its list position and all other fields. Foreign keys are left alone
// unless opts.RelinkReferences is set. Running Repair twice re-keys again.
func Repair(d *dataset.Dataset, alloc *ident.Allocator, opts Options) *RepairResult {
	r := &repairer{
		alloc:    alloc,
		fallback: opts.fallbackWorldview(),
		log:      opts.logger(),
	}
	out := d.Clone()
	rekey(r, dataset.KindScene, out.Scenes, dataset.SceneWorldview,
		func(s dataset.Scene) (string, string) { return s.ID, s.Name },
		func(s *dataset.Scene, id string) { s.ID = id })
	rekey(r, dataset.KindLayer, out.Layers, dataset.LayerWorldview,
		func(l dataset.Layer) (string, string) { return l.ID, l.Name },
		func(l *dataset.Layer, id string) { l.ID = id })
	rekey(r, dataset.KindPlay, out.Plays, dataset.PlayWorldview,
		func(p dataset.Play) (string, string) { return p.ID, p.Name },
		func(p *dataset.Play, id string) { p.ID = id })
	rekey(r, dataset.KindCommand, out.Commands, dataset.CommandWorldview,
		func(c dataset.Command) (string, string) { return c.ID, c.Name },
		func(c *dataset.Command, id string) { c.ID = id })

	res := &RepairResult{Dataset: out, Changes: r.changes}
	if opts.RelinkReferences {
		res.Relinked = relink(out, r.changes)
	}
	r.log.Info("repaired record ids",
		"scenes", len(out.Scenes),
		"layers", len(out.Layers),
		"plays", len(out.Plays),
		"commands", len(out.Commands),
		"relinked", res.Relinked,
	)
	return res
}

type repairer struct {
	alloc    *ident.Allocator
	fallback string
	log      *slog.Logger
	changes  []IDChange
}

// rekey replaces IDs in items in place.
func rekey[T any](r *repairer, kind dataset.Kind, items []T, worldviewOf func(T) string, describe func(T) (string, string), setID func(*T, string)) {
	existing := ident.NewIDSet()
	for _, group := range dataset.Partition(items, worldviewOf, r.fallback) {
		for _, member := range group.Members {
			oldID, name := describe(member.Item)
			newID := r.alloc.Allocate(ident.Request{Kind: kind, Worldview: group.Worldview, NameHint: name}, existing)
			existing.Add(newID)
			setID(&items[member.Index], newID)

			r.changes = append(r.changes, IDChange{
				Kind:      kind,
				Index:     member.Index,
				Worldview: group.Worldview,
				Name:      name,
				OldID:     oldID,
				NewID:     newID,
			})
			r.log.Debug("reassigned id", "kind", string(kind), "worldview", group.Worldview, "name", name, "old_id", oldID, "new_id", newID)
		}
	}
}

// relink rewrites play and command references whose old target ID belonged
// to exactly one record.
func relink(d *dataset.Dataset, changes []IDChange) int {
	unique := map[dataset.Kind]map[string]string{
		dataset.KindScene: {},
		dataset.KindLayer: {},
	}
	counts := map[dataset.Kind]map[string]int{
		dataset.KindScene: {},
		dataset.KindLayer: {},
	}
	for _, ch := range changes {
		if _, ok := unique[ch.Kind]; !ok {
			continue
		}
		counts[ch.Kind][ch.OldID]++
		unique[ch.Kind][ch.OldID] = ch.NewID
	}
	lookup := func(kind dataset.Kind, old string) (string, bool) {
		if counts[kind][old] != 1 {
			return "", false
		}
		return unique[kind][old], true
	}

	n := 0
	for i, p := range d.Plays {
		if id, ok := lookup(dataset.KindLayer, p.LayerID); ok {
			d.Plays[i].LayerID = id
			n++
		}
	}
	for i, c := range d.Commands {
		kind := dataset.KindLayer
		switch dataset.NormalizeScope(string(c.ScopeType)) {
		case dataset.ScopeGlobal:
			continue
		case dataset.ScopeScene:
			kind = dataset.KindScene
		}
		targets := dataset.SplitTargetIDs(c.TargetIDs)
		changed := false
		for j, t := range targets {
			if id, ok := lookup(kind, t); ok {
				targets[j] = id
				changed = true
				n++
			}
		}
		if changed {
			d.Commands[i].TargetIDs = dataset.JoinTargetIDs(targets)
		}
	}
	return n
}
