package story

import (
	"errors"
	"fmt"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

// maxCandidatePlays bounds how many plays are offered per layer.
const maxCandidatePlays = 4

var (
	ErrNoLayers          = errors.New("no layers available")
	ErrFinished          = errors.New("walkthrough already finished")
	ErrEmptyChoice       = errors.New("choose at least one play or command")
	ErrPlayNotInLayer    = errors.New("play was not offered for the current layer")
	ErrCommandOutOfScope = errors.New("command was not offered here")
)

// Candidates are the options offered for one layer.
type Candidates struct {
	Layer    dataset.Layer
	Index    int
	Total    int
	Plays    []dataset.Play
	Commands []dataset.Command
}

// Empty reports whether nothing can be chosen on this layer.
func (c Candidates) Empty() bool {
	return len(c.Plays) == 0 && len(c.Commands) == 0
}

// Walkthrough lets a user pick plays and commands layer by layer. Candidates
// for a layer are drawn once when the layer is entered.
type Walkthrough struct {
	g            *Generator
	scene        dataset.Scene
	data         *dataset.Dataset
	layers       []dataset.Layer
	index        int
	items        []Item
	usedPlays    map[string]bool
	usedCommands map[string]bool
	current      Candidates
	story        *Story
}

// Start begins a walkthrough of sceneID. It fails with ErrNoLayers when the
// filtered dataset has no layers.
func (g *Generator) Start(d *dataset.Dataset, sceneID string, f Filter) (*Walkthrough, error) {
	s, err := scene(d, sceneID, f)
	if err != nil {
		return nil, err
	}
	data := f.Apply(d)
	layers := sortedLayers(data)
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	w := &Walkthrough{
		g:            g,
		scene:        s,
		data:         data,
		layers:       layers,
		items:        []Item{headerItem(s)},
		usedPlays:    map[string]bool{},
		usedCommands: map[string]bool{},
	}
	w.enter()
	g.logger.Info("walkthrough started", "scene", s.ID, "layers", len(layers))
	return w, nil
}

func (w *Walkthrough) enter() {
	layer := w.layers[w.index]
	plays := ScorePlays(layerPlays(w.data.Plays, layer.ID, w.usedPlays), w.scene)
	w.g.rng.Shuffle(len(plays), func(i, j int) { plays[i], plays[j] = plays[j], plays[i] })
	if len(plays) > maxCandidatePlays {
		plays = plays[:maxCandidatePlays]
	}
	var cmds []dataset.Command
	for _, c := range applicableCommands(w.data.Commands, w.scene.ID, layer.ID, w.usedCommands) {
		if w.g.roll(c.Probability) {
			cmds = append(cmds, c)
		}
	}
	w.current = Candidates{
		Layer:    layer,
		Index:    w.index,
		Total:    len(w.layers),
		Plays:    plays,
		Commands: cmds,
	}
}

// Candidates returns the options for the current layer. It is the zero value
// once the walkthrough is done.
func (w *Walkthrough) Candidates() Candidates {
	if w.Done() {
		return Candidates{}
	}
	return w.current
}

// Progress returns the 1-based current layer and the layer count.
func (w *Walkthrough) Progress() (int, int) {
	if w.Done() {
		return len(w.layers), len(w.layers)
	}
	return w.index + 1, len(w.layers)
}

func (w *Walkthrough) Done() bool {
	return w.story != nil
}

// Choose records the chosen plays and commands for the current layer and
// moves on. Every ID must be among the current Candidates; repeated IDs
// count once. An empty choice is only accepted when the layer offers nothing.
func (w *Walkthrough) Choose(playIDs, commandIDs []string) error {
	if w.Done() {
		return ErrFinished
	}
	if len(playIDs) == 0 && len(commandIDs) == 0 && !w.current.Empty() {
		return ErrEmptyChoice
	}
	layer := w.current.Layer

	var added []Item
	plays := map[string]bool{}
	for _, id := range playIDs {
		if plays[id] {
			continue
		}
		p, ok := w.offeredPlay(id)
		if !ok || p.LayerID != layer.ID {
			return fmt.Errorf("%w: %s", ErrPlayNotInLayer, id)
		}
		plays[id] = true
		added = append(added, playItem(layer, p))
	}
	cmds := map[string]bool{}
	for _, id := range commandIDs {
		if cmds[id] {
			continue
		}
		c, ok := w.offeredCommand(id)
		if !ok || !CommandApplies(c, w.scene.ID, layer.ID) {
			return fmt.Errorf("%w: %s", ErrCommandOutOfScope, id)
		}
		cmds[id] = true
		added = append(added, commandItem(c))
	}

	for id := range plays {
		w.usedPlays[id] = true
	}
	for id := range cmds {
		w.usedCommands[id] = true
	}
	w.items = append(w.items, added...)

	if w.index < len(w.layers)-1 {
		w.index++
		w.enter()
		return nil
	}
	w.story = w.g.newStory(w.scene, w.items)
	w.story.Title = w.scene.Name + interactiveSuffix
	w.story.Interactive = true
	w.g.logger.Info("walkthrough finished", "scene", w.scene.ID, "items", len(w.items))
	return nil
}

// Story returns the finished story, or the flow so far while in progress.
func (w *Walkthrough) Story() *Story {
	if w.story != nil {
		return w.story
	}
	return &Story{
		Title:     w.scene.Name,
		SceneID:   w.scene.ID,
		SceneName: w.scene.Name,
		Worldview: w.scene.Worldview,
		Items:     append([]Item(nil), w.items...),
	}
}

// offeredPlay finds id among the plays drawn for the current layer.
func (w *Walkthrough) offeredPlay(id string) (dataset.Play, bool) {
	for _, p := range w.current.Plays {
		if p.ID == id {
			return p, true
		}
	}
	return dataset.Play{}, false
}

func (w *Walkthrough) offeredCommand(id string) (dataset.Command, bool) {
	for _, c := range w.current.Commands {
		if c.ID == id {
			return c, true
		}
	}
	return dataset.Command{}, false
}
