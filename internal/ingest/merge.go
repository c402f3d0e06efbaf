package ingest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
)

// DanglingRef is a foreign key that could not be remapped during a merge.
type DanglingRef struct {
	Source   string
	Kind     dataset.Kind
	RecordID string
	Name     string
	Field    string
	Target   string
}

func (d DanglingRef) String() string {
	return fmt.Sprintf("%s %s %s (%s): %s -> %s", d.Source, d.Kind, d.RecordID, d.Name, d.Field, d.Target)
}

type Result struct {
	Dataset    *dataset.Dataset
	Datasets   int
	Imported   map[dataset.Kind]int
	Worldviews []string
	Skipped    []string
	Dangling   []DanglingRef
	// FilesSkipped counts input files ignored because an identical file was
	// already part of the same import.
	FilesSkipped int
}

// Summary renders the per-kind import counts for display.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "成功导入 %d 个数据集：", r.Datasets-len(r.Skipped))
	parts := make([]string, 0, len(dataset.Kinds))
	for _, kind := range dataset.Kinds {
		parts = append(parts, fmt.Sprintf("%s %d 个", kind.Label(), r.Imported[kind]))
	}
	b.WriteString(strings.Join(parts, "，"))
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "；跳过 %d 个无法识别的数据集", len(r.Skipped))
	}
	if len(r.Dangling) > 0 {
		fmt.Fprintf(&b, "；%d 处引用无法解析", len(r.Dangling))
	}
	return b.String()
}

// Import decodes data and merges it into current. A decode failure returns
// before anything is merged.
func Import(current *dataset.Dataset, data []byte, alloc *ident.Allocator, opts Options) (*Result, error) {
	sources, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Merge(current, sources, alloc, opts), nil
}

// Merge re-keys every source dataset, in order, and appends the records to a
// copy of current. Each source's foreign keys are rewritten against that
// source's own records only. current is never modified.
func Merge(current *dataset.Dataset, sources []Source, alloc *ident.Allocator, opts Options) *Result {
	out := current.Clone()
	res := &Result{
		Dataset:  out,
		Datasets: len(sources),
		Imported: make(map[dataset.Kind]int, len(dataset.Kinds)),
	}
	existing := make(map[dataset.Kind]ident.IDSet, len(dataset.Kinds))
	for _, kind := range dataset.Kinds {
		existing[kind] = ident.NewIDSet(out.IDs(kind)...)
	}

	log := opts.logger()
	for _, src := range sources {
		if src.Shape == ShapeUnknown {
			res.Skipped = append(res.Skipped, src.Label())
			log.Warn("skipping dataset with no recognised shape", "dataset", src.Label())
			continue
		}

		m := &sourceMerge{
			src:       src,
			worldview: ResolveWorldview(src, opts.hints()),
			alloc:     alloc,
			existing:  existing,
			res:       res,
		}
		m.run(out)
		res.Worldviews = append(res.Worldviews, m.worldview)
		log.Info("merged dataset",
			"dataset", src.Label(),
			"shape", src.Shape.String(),
			"worldview", m.worldview,
			"scenes", len(src.Dataset.Scenes),
			"layers", len(src.Dataset.Layers),
			"plays", len(src.Dataset.Plays),
			"commands", len(src.Dataset.Commands),
		)
	}
	return res
}

type sourceMerge struct {
	src       Source
	worldview string
	alloc     *ident.Allocator
	existing  map[dataset.Kind]ident.IDSet
	res       *Result

	scenes []dataset.Scene
	layers []dataset.Layer
}

func (m *sourceMerge) allocate(kind dataset.Kind, name string) string {
	id := m.alloc.Allocate(ident.Request{Kind: kind, Worldview: m.worldview, NameHint: name}, m.existing[kind])
	m.existing[kind].Add(id)
	return id
}

func (m *sourceMerge) dangling(kind dataset.Kind, id, name, field, target string) {
	m.res.Dangling = append(m.res.Dangling, DanglingRef{
		Source:   m.src.Label(),
		Kind:     kind,
		RecordID: id,
		Name:     name,
		Field:    field,
		Target:   target,
	})
}

func (m *sourceMerge) run(out *dataset.Dataset) {
	d := m.src.Dataset

	m.scenes = make([]dataset.Scene, 0, len(d.Scenes))
	for _, s := range d.Scenes {
		s.ID = m.allocate(dataset.KindScene, s.Name)
		s.Worldview = m.worldview
		s.Tags = nonNil(slices.Clone(s.Tags))
		m.scenes = append(m.scenes, s)
	}

	m.layers = make([]dataset.Layer, 0, len(d.Layers))
	for _, l := range d.Layers {
		l.ID = m.allocate(dataset.KindLayer, l.Name)
		l.Worldview = m.worldview
		m.layers = append(m.layers, l)
	}

	plays := make([]dataset.Play, 0, len(d.Plays))
	for _, p := range d.Plays {
		p.ID = m.allocate(dataset.KindPlay, p.Name)
		p.Worldview = m.worldview
		p.Tags = nonNil(slices.Clone(p.Tags))
		if p.LayerID != "" {
			if id, ok := m.remapLayer(p.LayerID); ok {
				p.LayerID = id
			} else {
				m.dangling(dataset.KindPlay, p.ID, p.Name, "fk_layer_id", p.LayerID)
			}
		}
		plays = append(plays, p)
	}

	commands := make([]dataset.Command, 0, len(d.Commands))
	for _, c := range d.Commands {
		c.ID = m.allocate(dataset.KindCommand, c.Name)
		c.Worldview = m.worldview
		c.ScopeType = dataset.NormalizeScope(string(c.ScopeType))
		c.TargetIDs = m.remapTargets(c)
		commands = append(commands, c)
	}

	out.Scenes = append(out.Scenes, m.scenes...)
	out.Layers = append(out.Layers, m.layers...)
	out.Plays = append(out.Plays, plays...)
	out.Commands = append(out.Commands, commands...)

	m.res.Imported[dataset.KindScene] += len(m.scenes)
	m.res.Imported[dataset.KindLayer] += len(m.layers)
	m.res.Imported[dataset.KindPlay] += len(plays)
	m.res.Imported[dataset.KindCommand] += len(commands)
}

// remapLayer finds the source layer with the old ID and returns the new ID
// of the re-keyed layer with the same name, sequence and worldview.
func (m *sourceMerge) remapLayer(oldID string) (string, bool) {
	i := slices.IndexFunc(m.src.Dataset.Layers, func(l dataset.Layer) bool { return l.ID == oldID })
	if i < 0 {
		return "", false
	}
	orig := m.src.Dataset.Layers[i]
	for _, l := range m.layers {
		if l.Name == orig.Name && l.Sequence == orig.Sequence && l.Worldview == m.worldview {
			return l.ID, true
		}
	}
	return "", false
}

func (m *sourceMerge) remapScene(oldID string) (string, bool) {
	i := slices.IndexFunc(m.src.Dataset.Scenes, func(s dataset.Scene) bool { return s.ID == oldID })
	if i < 0 {
		return "", false
	}
	orig := m.src.Dataset.Scenes[i]
	for _, s := range m.scenes {
		if s.Name == orig.Name && s.Worldview == m.worldview {
			return s.ID, true
		}
	}
	return "", false
}

// remapTargets rewrites a command's target list in order, dropping entries
// that do not resolve inside the source dataset.
func (m *sourceMerge) remapTargets(c dataset.Command) string {
	if c.ScopeType == dataset.ScopeGlobal {
		return ""
	}
	remap := m.remapScene
	if c.ScopeType == dataset.ScopeLayer {
		remap = m.remapLayer
	}
	var ids []string
	for _, target := range dataset.SplitTargetIDs(c.TargetIDs) {
		id, ok := remap(target)
		if !ok {
			m.dangling(dataset.KindCommand, c.ID, c.Name, "fk_target_id", target)
			continue
		}
		ids = append(ids, id)
	}
	return dataset.JoinTargetIDs(ids)
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
