package story

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

var (
	ErrNoSceneSelected   = errors.New("no scene selected")
	ErrSceneNotFound     = errors.New("scene not found")
	ErrWorldviewMismatch = errors.New("scene does not belong to the filtered worldview")
)

// Generator builds stories from a dataset. It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

type Option func(*Generator)

// WithRand replaces the random source used for picks and rolls.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc replaces the story ID source.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

func NewGenerator(opts ...Option) *Generator {
	seed := uint64(time.Now().UnixNano())
	g := &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed>>13|1)),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// scene resolves sceneID against the full dataset and checks it against f.
func scene(d *dataset.Dataset, sceneID string, f Filter) (dataset.Scene, error) {
	if sceneID == "" {
		return dataset.Scene{}, ErrNoSceneSelected
	}
	s, ok := d.SceneByID(sceneID)
	if !ok {
		return dataset.Scene{}, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
	}
	if f.Active() && s.Worldview != f.Worldview {
		return dataset.Scene{}, fmt.Errorf("%w: %q is in %q, filter is %q",
			ErrWorldviewMismatch, s.Name, s.Worldview, f.Worldview)
	}
	return s, nil
}

// sortedLayers returns the layers of d ordered by sequence.
func sortedLayers(d *dataset.Dataset) []dataset.Layer {
	c := &dataset.Dataset{Layers: append([]dataset.Layer(nil), d.Layers...)}
	c.SortLayers()
	return c.Layers
}

// roll reports whether a command with the given probability fires.
func (g *Generator) roll(probability int) bool {
	return g.rng.Float64()*100 <= float64(probability)
}

// Generate builds a story for sceneID in one pass: a header, then for every
// layer in sequence order one unused top-scoring play and every applicable
// unused command whose roll succeeds.
func (g *Generator) Generate(d *dataset.Dataset, sceneID string, f Filter) (*Story, error) {
	s, err := scene(d, sceneID, f)
	if err != nil {
		return nil, err
	}
	data := f.Apply(d)

	items := []Item{headerItem(s)}
	usedPlays := map[string]bool{}
	usedCommands := map[string]bool{}

	for _, layer := range sortedLayers(data) {
		if plays := layerPlays(data.Plays, layer.ID, usedPlays); len(plays) > 0 {
			top := ScorePlays(plays, s)
			p := top[g.rng.IntN(len(top))]
			usedPlays[p.ID] = true
			items = append(items, playItem(layer, p))
			g.logger.Debug("picked play",
				"layer", layer.ID,
				"play", p.ID,
				"score", TagScore(p, s),
				"alternatives", len(top)-1,
			)
		}
		for _, c := range applicableCommands(data.Commands, s.ID, layer.ID, usedCommands) {
			if g.roll(c.Probability) {
				usedCommands[c.ID] = true
				items = append(items, commandItem(c))
			}
		}
	}

	st := g.newStory(s, items)
	g.logger.Info("story generated", "scene", s.ID, "worldview", s.Worldview, "items", len(items))
	return st, nil
}

func (g *Generator) newStory(s dataset.Scene, items []Item) *Story {
	return &Story{
		ID:        g.newID(),
		Title:     s.Name,
		SceneID:   s.ID,
		SceneName: s.Name,
		Worldview: s.Worldview,
		CreatedAt: g.now(),
		Items:     items,
	}
}
