// Package session holds the user's current selections between commands.
// Every update returns a new State; callers persist it through the store.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
	"github.com/guyeu9/Interactive-story-game-editor/internal/story"
)

var ErrUnknownWorldview = errors.New("unknown worldview")

type State struct {
	SelectedWorldview string    `json:"selected_worldview"`
	WorldviewFilter   bool      `json:"worldview_filter"`
	SelectedSceneID   string    `json:"selected_scene_id"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Filter returns the generation filter for s.
func (s State) Filter() story.Filter {
	return story.Filter{Worldview: s.SelectedWorldview, Enabled: s.WorldviewFilter}
}

// SelectWorldview switches the selected worldview. An empty worldview clears
// the selection. The selected scene is dropped when it belongs elsewhere.
func SelectWorldview(s State, d *dataset.Dataset, worldview string, now time.Time) (State, error) {
	if worldview != "" && !hasWorldview(d, worldview) {
		return s, fmt.Errorf("%w: %s", ErrUnknownWorldview, worldview)
	}
	s.SelectedWorldview = worldview
	if sc, ok := d.SceneByID(s.SelectedSceneID); ok && worldview != "" && sc.Worldview != worldview {
		s.SelectedSceneID = ""
	}
	s.UpdatedAt = now
	return s, nil
}

func SetFilter(s State, enabled bool, now time.Time) State {
	s.WorldviewFilter = enabled
	s.UpdatedAt = now
	return s
}

// SelectScene makes sceneID the current scene. When the filter is active the
// scene must belong to the selected worldview.
func SelectScene(s State, d *dataset.Dataset, sceneID string, now time.Time) (State, error) {
	sc, ok := d.SceneByID(sceneID)
	if !ok {
		return s, fmt.Errorf("%w: %s", story.ErrSceneNotFound, sceneID)
	}
	if f := s.Filter(); f.Active() && sc.Worldview != f.Worldview {
		return s, fmt.Errorf("%w: %q is in %q", story.ErrWorldviewMismatch, sc.Name, sc.Worldview)
	}
	s.SelectedSceneID = sceneID
	s.UpdatedAt = now
	return s, nil
}

// Reconcile clears selections the dataset no longer supports and returns a
// notice per cleared selection.
func Reconcile(s State, d *dataset.Dataset, now time.Time) (State, []string) {
	var notices []string
	if s.SelectedWorldview != "" && !hasWorldview(d, s.SelectedWorldview) {
		notices = append(notices, fmt.Sprintf("世界观 %q 已不存在，已清除选择", s.SelectedWorldview))
		s.SelectedWorldview = ""
	}
	if s.SelectedSceneID != "" {
		sc, ok := d.SceneByID(s.SelectedSceneID)
		switch {
		case !ok:
			notices = append(notices, fmt.Sprintf("场景 %s 已不存在，已清除选择", s.SelectedSceneID))
			s.SelectedSceneID = ""
		case s.Filter().Active() && sc.Worldview != s.SelectedWorldview:
			notices = append(notices, fmt.Sprintf("场景 %q 不属于世界观 %q，已清除选择", sc.Name, s.SelectedWorldview))
			s.SelectedSceneID = ""
		}
	}
	if len(notices) > 0 {
		s.UpdatedAt = now
	}
	return s, notices
}

// ResetSelection clears the worldview and scene, keeping the filter switch.
func ResetSelection(s State, now time.Time) State {
	s.SelectedWorldview = ""
	s.SelectedSceneID = ""
	s.UpdatedAt = now
	return s
}

func hasWorldview(d *dataset.Dataset, w string) bool {
	for _, sc := range d.Scenes {
		if sc.Worldview == w {
			return true
		}
	}
	return false
}
