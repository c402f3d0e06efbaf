package ingest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

var ErrInvalidJSON = errors.New("invalid JSON")

// Shape tags the layout a source dataset was authored in.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeCanonical
	ShapeScenario
)

func (s Shape) String() string {
	switch s {
	case ShapeCanonical:
		return "canonical"
	case ShapeScenario:
		return "scenario"
	}
	return "unknown"
}

// Source is one dataset of an import file, already normalized to the
// canonical record lists. Index is its position across the whole import.
type Source struct {
	Index     int
	Shape     Shape
	Worldview string
	Dataset   *dataset.Dataset
}

// Label names the source in summaries and logs.
func (s Source) Label() string {
	return fmt.Sprintf("数据集%d", s.Index+1)
}

type canonicalSource struct {
	Worldview string `json:"worldview"`
	dataset.Dataset
}

type scenarioSource struct {
	WorldviewName string     `json:"worldviewName"`
	Scenarios     []Scenario `json:"scenarios"`
}

// Scenario is one record of the scenario-style layout.
type Scenario struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Worldview   string          `json:"worldview"`
	Choices     json.RawMessage `json:"choices"`
}

// dataURIPrefix marks a shared dataset link.
const dataURIPrefix = "data:application/json;base64,"

var canonicalKeys = []string{"scenes", "layers", "plays", "commands", "worldview"}

// Decode parses an import file. The top level is either one dataset object
// or an array of them, optionally wrapped in a base64 data URI. Every
// element is classified and normalized before Decode returns, so a malformed
// file never yields partial sources.
func Decode(data []byte) ([]Source, error) {
	if trimmed := bytes.TrimSpace(data); bytes.HasPrefix(trimmed, []byte(dataURIPrefix)) {
		raw, err := base64.StdEncoding.DecodeString(string(trimmed[len(dataURIPrefix):]))
		if err != nil {
			return nil, fmt.Errorf("%w: data URI: %v", ErrInvalidJSON, err)
		}
		data = raw
	}
	if !gjson.ValidBytes(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = errors.New("unexpected input")
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	root := gjson.ParseBytes(data)
	elems := []gjson.Result{root}
	if root.IsArray() {
		elems = root.Array()
	}

	sources := make([]Source, 0, len(elems))
	for i, elem := range elems {
		src, err := normalize(i, elem)
		if err != nil {
			return nil, fmt.Errorf("%w: dataset %d: %v", ErrInvalidJSON, i+1, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func sniff(elem gjson.Result) Shape {
	if !elem.IsObject() {
		return ShapeUnknown
	}
	if elem.Get("worldviewName").Exists() && elem.Get("scenarios").IsArray() {
		return ShapeScenario
	}
	for _, key := range canonicalKeys {
		if elem.Get(key).Exists() {
			return ShapeCanonical
		}
	}
	return ShapeUnknown
}

func normalize(index int, elem gjson.Result) (Source, error) {
	src := Source{Index: index, Shape: sniff(elem), Dataset: &dataset.Dataset{}}
	switch src.Shape {
	case ShapeCanonical:
		var raw canonicalSource
		if err := json.Unmarshal([]byte(elem.Raw), &raw); err != nil {
			return Source{}, err
		}
		src.Worldview = raw.Worldview
		src.Dataset = &raw.Dataset
	case ShapeScenario:
		var raw scenarioSource
		if err := json.Unmarshal([]byte(elem.Raw), &raw); err != nil {
			return Source{}, err
		}
		src.Worldview = raw.WorldviewName
		src.Dataset = NormalizeScenarios(raw.WorldviewName, raw.Scenarios)
	}
	src.Dataset.Normalize()
	return src, nil
}

// NormalizeScenarios maps scenario records onto scenes. Choices are carried
// through untouched.
func NormalizeScenarios(worldviewName string, scenarios []Scenario) *dataset.Dataset {
	d := &dataset.Dataset{Scenes: make([]dataset.Scene, 0, len(scenarios))}
	for _, sc := range scenarios {
		w := sc.Worldview
		if w == "" {
			w = worldviewName
		}
		d.Scenes = append(d.Scenes, dataset.Scene{
			ID:          sc.ID,
			Name:        sc.Title,
			Description: sc.Description,
			Tags:        []string{},
			Worldview:   w,
			Choices:     sc.Choices,
		})
	}
	return d
}
