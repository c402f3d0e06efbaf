package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

func TestGuessLayerName(t *testing.T) {
	tests := map[string]string{
		"L1_SETUP":  "第一幕",
		"ACT2":      "第二幕",
		"L5":        "第五幕",
		"START":     "开始阶段",
		"THE_END":   "结束阶段",
		"MAIN":      "核心阶段",
		"PREP_ROOM": "准备阶段",
		"XYZ":       "自动层级 XYZ",
	}
	for id, want := range tests {
		t.Run(id, func(t *testing.T) {
			assert.Equal(t, want, guessLayerName(id))
		})
	}
}

func TestFillMissingLayers(t *testing.T) {
	d := dataset.Demo()
	d.Plays = append(d.Plays,
		dataset.Play{ID: "P9", LayerID: "FINISH", Worldview: "月王故事"},
		dataset.Play{ID: "P10", LayerID: "FINISH", Worldview: "月王故事"},
		dataset.Play{ID: "P11", LayerID: "L4", Worldview: "其他"},
		dataset.Play{ID: "P12", LayerID: ""},
	)

	created := FillMissingLayers(d, "")
	require.Len(t, created, 2)
	assert.Equal(t, dataset.Layer{ID: "FINISH", Name: "结束阶段", Sequence: 4, Worldview: "月王故事"}, created[0])
	assert.Equal(t, dataset.Layer{ID: "L4", Name: "第四幕", Sequence: 5, Worldview: "其他"}, created[1])
	assert.Len(t, d.Layers, 5)

	assert.Empty(t, FillMissingLayers(d, ""))
}

func TestFillMissingLayersByWorldview(t *testing.T) {
	d := dataset.Demo()
	d.Plays = append(d.Plays,
		dataset.Play{ID: "P9", LayerID: "A", Worldview: "月王故事"},
		dataset.Play{ID: "P10", LayerID: "B", Worldview: "其他"},
	)
	created := FillMissingLayers(d, "月王故事")
	require.Len(t, created, 1)
	assert.Equal(t, "A", created[0].ID)
}
