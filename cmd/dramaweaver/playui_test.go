package main

import (
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

func startWalk(t *testing.T, sceneID string) *story.Walkthrough {
	t.Helper()
	gen := story.NewGenerator(story.WithRand(rand.New(rand.NewPCG(3, 5))))
	w, err := gen.Start(dataset.Demo(), sceneID, story.Filter{})
	require.NoError(t, err)
	return w
}

func press(m playModel, msg tea.KeyMsg) (playModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(playModel), cmd
}

func TestPlayModel_EnterPicksCursorUntilDone(t *testing.T) {
	m := newPlayModel(startWalk(t, "S001"))
	require.NotEmpty(t, m.options)

	var cmd tea.Cmd
	for i := 0; i < 10 && !m.walk.Done(); i++ {
		m, cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NoError(t, m.err)
	}
	require.True(t, m.walk.Done())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	st := m.walk.Story()
	assert.True(t, st.Interactive)
	assert.Equal(t, "废弃实验室 (剧情走向)", st.Title)
	assert.Equal(t, story.ItemHeader, st.Items[0].Type)
	assert.Empty(t, m.View())
}

func TestPlayModel_ToggleSelection(t *testing.T) {
	m := newPlayModel(startWalk(t, "S001"))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.selected[0])
	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.selected[0])

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, min(1, len(m.options)-1), m.cursor)
}

func TestPlayModel_Quit(t *testing.T) {
	m := newPlayModel(startWalk(t, "S001"))

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.False(t, m.walk.Done())
	assert.Empty(t, m.View())
}

func TestPlayModel_ViewShowsLayer(t *testing.T) {
	m := newPlayModel(startWalk(t, "S001"))

	view := m.View()
	assert.Contains(t, view, "开场准备")
	assert.Contains(t, view, "搜寻物资")
}

func TestParseSwitch(t *testing.T) {
	on, err := parseSwitch("ON")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := parseSwitch("off")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = parseSwitch("maybe")
	assert.Error(t, err)
}

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=scene", " 2 = 月王故事 ", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "scene", "2": "月王故事"}, params)

	_, err = parseParamPairs([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParamPairs([]string{"=x"})
	assert.Error(t, err)
}
