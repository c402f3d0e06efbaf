package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeDuplicateID       = "duplicate_id"
	codeEmptyID           = "empty_id"
	codeDanglingLayerRef  = "dangling_layer_ref"
	codeDanglingTargetRef = "dangling_target_ref"
	codeScopeTargets      = "scope_target_mismatch"
	codeInvalidScope      = "invalid_scope"
	codeProbabilityRange  = "probability_out_of_range"
	codeCrossWorldviewRef = "cross_worldview_ref"
	codeLayerWithoutPlays = "layer_without_plays"
	codeMissingName       = "missing_name"
)

type Issue struct {
	Severity  Severity
	Code      string
	Message   string
	Kind      dataset.Kind
	RecordID  string
	Name      string
	Worldview string
}

type Report struct {
	Issues []Issue
}

// Errors returns the issues with error severity.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the issues with warning severity.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarn)
}

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// Loader supplies the dataset to check.
type Loader interface {
	LoadDataset(ctx context.Context) (*dataset.Dataset, error)
}

func Run(ctx context.Context, loader Loader) (*Report, error) {
	if loader == nil {
		return nil, fmt.Errorf("dataset loader is required")
	}
	d, err := loader.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return &Report{Issues: Check(d)}, nil
}

// Check runs every consistency rule against d.
func Check(d *dataset.Dataset) []Issue {
	issues := make([]Issue, 0)
	issues = append(issues, checkIDs(d)...)
	issues = append(issues, checkNames(d)...)
	issues = append(issues, checkPlayLayers(d)...)
	issues = append(issues, checkCommands(d)...)
	issues = append(issues, checkLayerUsage(d)...)
	return issues
}

type record struct {
	kind      dataset.Kind
	id        string
	name      string
	worldview string
}

func records(d *dataset.Dataset) []record {
	var out []record
	for _, s := range d.Scenes {
		out = append(out, record{dataset.KindScene, s.ID, s.Name, s.Worldview})
	}
	for _, l := range d.Layers {
		out = append(out, record{dataset.KindLayer, l.ID, l.Name, l.Worldview})
	}
	for _, p := range d.Plays {
		out = append(out, record{dataset.KindPlay, p.ID, p.Name, p.Worldview})
	}
	for _, c := range d.Commands {
		out = append(out, record{dataset.KindCommand, c.ID, c.Name, c.Worldview})
	}
	return out
}

func issueFor(r record, severity Severity, code, message string) Issue {
	return Issue{
		Severity:  severity,
		Code:      code,
		Message:   message,
		Kind:      r.kind,
		RecordID:  r.id,
		Name:      r.name,
		Worldview: r.worldview,
	}
}

func checkIDs(d *dataset.Dataset) []Issue {
	var issues []Issue
	seen := make(map[dataset.Kind]map[string]bool)
	for _, r := range records(d) {
		if strings.TrimSpace(r.id) == "" {
			issues = append(issues, issueFor(r, SeverityError, codeEmptyID, "record has no id"))
			continue
		}
		if seen[r.kind] == nil {
			seen[r.kind] = make(map[string]bool)
		}
		if reported, dup := seen[r.kind][r.id]; dup {
			if !reported {
				issues = append(issues, issueFor(r, SeverityError, codeDuplicateID, fmt.Sprintf("id %s is used by more than one %s", r.id, r.kind)))
				seen[r.kind][r.id] = true
			}
			continue
		}
		seen[r.kind][r.id] = false
	}
	return issues
}

func checkNames(d *dataset.Dataset) []Issue {
	var issues []Issue
	for _, r := range records(d) {
		if strings.TrimSpace(r.name) == "" {
			issues = append(issues, issueFor(r, SeverityWarn, codeMissingName, "record has no name"))
		}
	}
	return issues
}

func checkPlayLayers(d *dataset.Dataset) []Issue {
	var issues []Issue
	for _, p := range d.Plays {
		r := record{dataset.KindPlay, p.ID, p.Name, p.Worldview}
		layer, ok := d.LayerByID(p.LayerID)
		if !ok {
			issues = append(issues, issueFor(r, SeverityError, codeDanglingLayerRef, fmt.Sprintf("fk_layer_id %q does not match any layer", p.LayerID)))
			continue
		}
		if layer.Worldview != p.Worldview {
			issues = append(issues, issueFor(r, SeverityWarn, codeCrossWorldviewRef, fmt.Sprintf("layer %s belongs to worldview %q", layer.ID, layer.Worldview)))
		}
	}
	return issues
}

func checkCommands(d *dataset.Dataset) []Issue {
	var issues []Issue
	for _, c := range d.Commands {
		r := record{dataset.KindCommand, c.ID, c.Name, c.Worldview}
		if c.Probability < 0 || c.Probability > 100 {
			issues = append(issues, issueFor(r, SeverityError, codeProbabilityRange, fmt.Sprintf("probability %d is outside 0..100", c.Probability)))
		}
		if !dataset.ValidScope(c.ScopeType) {
			issues = append(issues, issueFor(r, SeverityError, codeInvalidScope, fmt.Sprintf("unknown scope_type %q", c.ScopeType)))
			continue
		}

		targets := c.Targets()
		switch c.ScopeType {
		case dataset.ScopeGlobal:
			if len(targets) > 0 {
				issues = append(issues, issueFor(r, SeverityError, codeScopeTargets, "GLOBAL command must not list targets"))
			}
			continue
		default:
			if len(targets) == 0 {
				issues = append(issues, issueFor(r, SeverityError, codeScopeTargets, fmt.Sprintf("%s command lists no targets", c.ScopeType)))
				continue
			}
		}

		for _, target := range targets {
			var worldview string
			var ok bool
			if c.ScopeType == dataset.ScopeScene {
				var s dataset.Scene
				s, ok = d.SceneByID(target)
				worldview = s.Worldview
			} else {
				var l dataset.Layer
				l, ok = d.LayerByID(target)
				worldview = l.Worldview
			}
			if !ok {
				issues = append(issues, issueFor(r, SeverityError, codeDanglingTargetRef, fmt.Sprintf("fk_target_id entry %q does not match any %s", target, strings.ToLower(string(c.ScopeType)))))
				continue
			}
			if worldview != c.Worldview {
				issues = append(issues, issueFor(r, SeverityWarn, codeCrossWorldviewRef, fmt.Sprintf("target %s belongs to worldview %q", target, worldview)))
			}
		}
	}
	return issues
}

func checkLayerUsage(d *dataset.Dataset) []Issue {
	used := make(map[string]bool)
	for _, p := range d.Plays {
		used[p.LayerID] = true
	}
	var issues []Issue
	for _, l := range d.Layers {
		if !used[l.ID] {
			issues = append(issues, issueFor(record{dataset.KindLayer, l.ID, l.Name, l.Worldview}, SeverityWarn, codeLayerWithoutPlays, "no play references this layer"))
		}
	}
	return issues
}
