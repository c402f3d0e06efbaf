package ingest

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
	"github.com/guyeu9/Interactive-story-game-editor/internal/parser"
)

var ErrNothingParsed = errors.New("no valid records parsed")

const (
	defaultPlayDescription    = "暂无描述"
	defaultPlayResult         = "未知结果"
	defaultTrigger            = "自动"
	defaultCommandDescription = "系统指令"
	defaultProbability        = 20
)

// BatchOptions are the defaults applied to every line of a batch. Empty
// fields fall back to the document's frontmatter.
type BatchOptions struct {
	Kind      dataset.Kind
	Worldview string
	// Selected is the worldview chosen in the session filter, if any.
	Selected string
	Layer    string
	Scope    dataset.ScopeType
	Targets  []string
}

type BatchResult struct {
	Dataset   *dataset.Dataset
	Kind      dataset.Kind
	Worldview string
	Added     []string
}

// Batch turns the lines of doc into records of one kind and appends them to
// a copy of current.
func Batch(current *dataset.Dataset, doc *parser.Document, bo BatchOptions, alloc *ident.Allocator, opts Options) (*BatchResult, error) {
	bo, err := mergeDefaults(bo, doc.Defaults)
	if err != nil {
		return nil, err
	}
	if len(doc.Lines) == 0 {
		return nil, ErrNothingParsed
	}

	out := current.Clone()
	b := &batch{
		cur:       current,
		out:       out,
		opts:      bo,
		alloc:     alloc,
		existing:  ident.NewIDSet(current.IDs(bo.Kind)...),
		worldview: batchWorldview(current, doc, bo),
	}

	for _, line := range doc.Lines {
		if line.Field(0) == "" {
			continue
		}
		b.add(line)
	}
	if len(b.added) == 0 {
		return nil, ErrNothingParsed
	}
	if bo.Kind == dataset.KindLayer {
		out.SortLayers()
	}

	opts.logger().Info("batch imported", "kind", string(bo.Kind), "worldview", b.worldview, "count", len(b.added))
	return &BatchResult{Dataset: out, Kind: bo.Kind, Worldview: b.worldview, Added: b.added}, nil
}

func mergeDefaults(bo BatchOptions, d parser.Defaults) (BatchOptions, error) {
	if bo.Kind == "" {
		if d.Kind == "" {
			return bo, fmt.Errorf("batch kind is required")
		}
		kind, err := dataset.ParseKind(d.Kind)
		if err != nil {
			return bo, err
		}
		bo.Kind = kind
	}
	if bo.Worldview == "" {
		bo.Worldview = strings.TrimSpace(d.Worldview)
	}
	if bo.Layer == "" {
		bo.Layer = strings.TrimSpace(d.Layer)
	}
	if bo.Scope == "" && d.Scope != "" {
		bo.Scope = dataset.NormalizeScope(d.Scope)
	}
	if bo.Scope == "" {
		bo.Scope = dataset.ScopeGlobal
	}
	if len(bo.Targets) == 0 {
		bo.Targets = d.Targets
	}
	return bo, nil
}

// batchWorldview chooses the worldview every record of the batch is filed
// under.
func batchWorldview(d *dataset.Dataset, doc *parser.Document, bo BatchOptions) string {
	if bo.Worldview != "" {
		return bo.Worldview
	}
	if bo.Selected != "" {
		return bo.Selected
	}

	firstLayerWorldview := func() string {
		for _, l := range d.Layers {
			if l.Worldview != "" {
				return l.Worldview
			}
		}
		return ""
	}
	firstSceneWorldview := func() string {
		for _, s := range d.Scenes {
			if s.Worldview != "" {
				return s.Worldview
			}
		}
		return ""
	}
	fromFirstScene := ""
	if len(d.Scenes) > 0 {
		fromFirstScene = dataset.WorldviewKey(d.Scenes[0].Worldview, d.Scenes[0].Name)
	}

	var w string
	switch bo.Kind {
	case dataset.KindScene, dataset.KindLayer:
		w = doc.Lines[0].Field(0)
	case dataset.KindPlay:
		if l, ok := d.LayerByID(bo.Layer); ok && l.Worldview != "" {
			w = l.Worldview
		}
		if w == "" {
			w = fromFirstScene
		}
		if w == "" {
			w = firstLayerWorldview()
		}
	case dataset.KindCommand:
		switch bo.Scope {
		case dataset.ScopeScene:
			w = firstSceneWorldview()
		case dataset.ScopeLayer:
			w = firstLayerWorldview()
		}
		if w == "" {
			w = fromFirstScene
		}
		if w == "" {
			w = firstLayerWorldview()
		}
	}
	return dataset.WorldviewKey(w, dataset.DefaultWorldview)
}

type batch struct {
	cur       *dataset.Dataset
	out       *dataset.Dataset
	opts      BatchOptions
	alloc     *ident.Allocator
	existing  ident.IDSet
	worldview string
	added     []string
}

func (b *batch) allocate(name string) string {
	id := b.alloc.Allocate(ident.Request{Kind: b.opts.Kind, Worldview: b.worldview, NameHint: name}, b.existing)
	b.existing.Add(id)
	b.added = append(b.added, id)
	return id
}

func (b *batch) add(line parser.Line) {
	name := line.Field(0)
	switch b.opts.Kind {
	case dataset.KindScene:
		desc := line.Field(1)
		tags := parser.ParseTags(line.Field(2))
		if len(tags) == 0 && desc != "" {
			desc, tags = parser.TrailingTags(desc)
		}
		if desc == "" {
			desc = name + " (批量导入)"
		}
		b.out.Scenes = append(b.out.Scenes, dataset.Scene{
			ID:          b.allocate(name),
			Name:        name,
			Description: desc,
			Tags:        nonNil(tags),
			Worldview:   b.worldview,
		})

	case dataset.KindLayer:
		seq, ok := leadingInt(line.Field(1))
		if !ok || seq == 0 {
			seq = len(b.cur.Layers) + len(b.added) + 1
		}
		b.out.Layers = append(b.out.Layers, dataset.Layer{
			ID:        b.allocate(name),
			Name:      name,
			Sequence:  seq,
			Worldview: b.worldview,
		})

	case dataset.KindPlay:
		b.out.Plays = append(b.out.Plays, dataset.Play{
			ID:               b.allocate(name),
			Name:             name,
			Description:      orDefault(line.Field(1), defaultPlayDescription),
			Result:           orDefault(line.Field(2), defaultPlayResult),
			LayerID:          b.playLayer(line.Field(3)),
			TriggerCondition: defaultTrigger,
			Tags:             nonNil(parser.ParseTags(line.Field(4))),
			Worldview:        b.worldview,
		})

	case dataset.KindCommand:
		prob, ok := leadingInt(line.Field(2))
		if !ok || prob == 0 {
			prob = defaultProbability
		}
		scope := b.opts.Scope
		if s := line.Field(3); s != "" {
			scope = dataset.NormalizeScope(s)
		}
		b.out.Commands = append(b.out.Commands, dataset.Command{
			ID:          b.allocate(name),
			Name:        name,
			Description: orDefault(line.Field(1), defaultCommandDescription),
			Probability: prob,
			ScopeType:   scope,
			TargetIDs:   b.commandTargets(scope, line.Field(4)),
			Worldview:   b.worldview,
		})
	}
}

func (b *batch) playLayer(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if b.opts.Layer != "" {
		return b.opts.Layer
	}
	for _, l := range b.cur.Layers {
		if l.Worldview == b.worldview {
			return l.ID
		}
	}
	if len(b.cur.Layers) > 0 {
		return b.cur.Layers[0].ID
	}
	return ""
}

// commandTargets resolves the target list for a scoped command and keeps only
// existing records of the batch worldview.
func (b *batch) commandTargets(scope dataset.ScopeType, explicit string) string {
	if scope == dataset.ScopeGlobal {
		return ""
	}
	targets := dataset.SplitTargetIDs(explicit)
	if len(targets) == 0 {
		targets = slices.Clone(b.opts.Targets)
	}
	if len(targets) == 0 {
		if scope == dataset.ScopeScene {
			for _, s := range b.cur.Scenes {
				if s.Worldview == b.worldview {
					targets = append(targets, s.ID)
				}
			}
		} else {
			for _, l := range b.cur.Layers {
				if l.Worldview == b.worldview {
					targets = append(targets, l.ID)
				}
			}
		}
	}

	kept := targets[:0]
	for _, id := range targets {
		var w string
		var ok bool
		if scope == dataset.ScopeScene {
			var s dataset.Scene
			s, ok = b.cur.SceneByID(id)
			w = s.Worldview
		} else {
			var l dataset.Layer
			l, ok = b.cur.LayerByID(id)
			w = l.Worldview
		}
		if ok && w == b.worldview {
			kept = append(kept, id)
		}
	}
	return dataset.JoinTargetIDs(kept)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// leadingInt parses the leading decimal digits of s, so "30%" yields 30.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) || r > unicode.MaxASCII })
	if end == -1 {
		end = len(s)
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
