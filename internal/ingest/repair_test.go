package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/ident"
)

func duplicatedDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Scenes: []dataset.Scene{
			{ID: "S1", Name: "中央公园", Worldview: "中央", Tags: []string{"开放"}},
			{ID: "S1", Name: "海边", Worldview: "海边"},
			{ID: "S2", Name: "公园", Worldview: "中央"},
			{ID: "S2", Name: "无名"},
		},
		Layers: []dataset.Layer{
			{ID: "L1", Name: "开场", Sequence: 1, Worldview: "中央"},
			{ID: "L1", Name: "开场", Sequence: 1, Worldview: "海边"},
			{ID: "L2", Name: "结局", Sequence: 2, Worldview: "海边"},
		},
		Plays: []dataset.Play{
			{ID: "P1", Name: "散步", LayerID: "L2", Worldview: "海边"},
			{ID: "P1", Name: "野餐", LayerID: "L1", Worldview: "中央"},
		},
		Commands: []dataset.Command{
			{ID: "C1", Name: "下雨", ScopeType: dataset.ScopeLayer, TargetIDs: "L1, L2", Worldview: "海边"},
			{ID: "C2", Name: "鸟叫", ScopeType: dataset.ScopeScene, TargetIDs: "S1", Worldview: "中央"},
		},
	}
}

func TestRepairAssignsUniqueIDsInPlace(t *testing.T) {
	in := duplicatedDataset()
	res := Repair(in, ident.New(), Options{})
	out := res.Dataset

	assert.False(t, out.HasDuplicates())
	require.Len(t, out.Scenes, 4)
	require.Len(t, out.Layers, 3)
	require.Len(t, out.Plays, 2)
	require.Len(t, out.Commands, 2)

	for i := range in.Scenes {
		assert.Equal(t, in.Scenes[i].Name, out.Scenes[i].Name, "scene %d moved", i)
		assert.Equal(t, in.Scenes[i].Worldview, out.Scenes[i].Worldview)
	}
	assert.Equal(t, []string{"开放"}, out.Scenes[0].Tags)
	assert.Equal(t, "", out.Scenes[3].Worldview, "empty worldview is preserved")

	assert.Equal(t, "L2", out.Plays[0].LayerID, "references are untouched by default")
	assert.Equal(t, "L1, L2", out.Commands[0].TargetIDs)
	assert.Equal(t, "S1", in.Scenes[0].ID, "input must not change")
	assert.Len(t, res.Changes, 11)
}

func TestRepairKeepsWorldviewPrefixesApart(t *testing.T) {
	res := Repair(duplicatedDataset(), ident.New(), Options{})
	out := res.Dataset

	prefix := map[string]string{"中央": "ZYA", "海边": "HBA", "": "GAA"}
	for _, s := range out.Scenes {
		assert.Equal(t, prefix[s.Worldview], s.ID[1:4], "scene %s in %q", s.ID, s.Worldview)
	}
	for _, l := range out.Layers {
		assert.Equal(t, prefix[l.Worldview], l.ID[1:4], "layer %s in %q", l.ID, l.Worldview)
	}
	for _, ch := range res.Changes {
		if ch.Kind == dataset.KindScene && ch.Index == 3 {
			assert.Equal(t, dataset.DefaultWorldview, ch.Worldview)
		}
	}
}

func TestRepairGroupsByWorldview(t *testing.T) {
	res := Repair(duplicatedDataset(), ident.New(), Options{})
	var sceneOrder []int
	for _, ch := range res.Changes {
		if ch.Kind == dataset.KindScene {
			sceneOrder = append(sceneOrder, ch.Index)
		}
	}
	assert.Equal(t, []int{0, 2, 1, 3}, sceneOrder)
}

func TestRepairRelink(t *testing.T) {
	res := Repair(duplicatedDataset(), ident.New(), Options{RelinkReferences: true})
	out := res.Dataset

	assert.Equal(t, out.Layers[2].ID, out.Plays[0].LayerID, "unique L2 is relinked")
	assert.Equal(t, "L1", out.Plays[1].LayerID, "ambiguous L1 is left alone")
	assert.Equal(t, "L1,"+out.Layers[2].ID, out.Commands[0].TargetIDs)
	assert.Equal(t, "S1", out.Commands[1].TargetIDs)
	assert.Equal(t, 2, res.Relinked)
}

func TestRepairIsNotIdempotent(t *testing.T) {
	alloc := ident.New()
	first := Repair(dataset.Demo(), alloc, Options{})
	second := Repair(first.Dataset, alloc, Options{})
	assert.NotEqual(t, first.Dataset.Scenes[0].ID, second.Dataset.Scenes[0].ID)
}
