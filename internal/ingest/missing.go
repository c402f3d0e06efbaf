package ingest

import (
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

// layerNameRules are checked in order against a missing layer ID.
var layerNameRules = []struct {
	needles []string
	name    string
}{
	{[]string{"L1", "1"}, "第一幕"},
	{[]string{"L2", "2"}, "第二幕"},
	{[]string{"L3", "3"}, "第三幕"},
	{[]string{"L4", "4"}, "第四幕"},
	{[]string{"L5", "5"}, "第五幕"},
	{[]string{"START", "BEGIN"}, "开始阶段"},
	{[]string{"END", "FINISH"}, "结束阶段"},
	{[]string{"CORE", "MAIN"}, "核心阶段"},
	{[]string{"SETUP", "PREP"}, "准备阶段"},
}

func guessLayerName(id string) string {
	for _, rule := range layerNameRules {
		for _, needle := range rule.needles {
			if strings.Contains(id, needle) {
				return rule.name
			}
		}
	}
	return "自动层级 " + id
}

// FillMissingLayers creates a layer for every play reference that resolves
// to no layer and appends them to d. When worldview is non-empty only plays
// of that worldview are considered. The new layers are returned.
func FillMissingLayers(d *dataset.Dataset, worldview string) []dataset.Layer {
	known := make(map[string]struct{}, len(d.Layers))
	for _, l := range d.Layers {
		known[l.ID] = struct{}{}
	}

	var created []dataset.Layer
	base := len(d.Layers)
	for _, p := range d.Plays {
		if worldview != "" && p.Worldview != worldview {
			continue
		}
		if _, ok := known[p.LayerID]; ok || p.LayerID == "" {
			continue
		}
		known[p.LayerID] = struct{}{}
		created = append(created, dataset.Layer{
			ID:        p.LayerID,
			Name:      guessLayerName(p.LayerID),
			Sequence:  base + len(created) + 1,
			Worldview: p.Worldview,
		})
	}
	d.Layers = append(d.Layers, created...)
	return created
}
