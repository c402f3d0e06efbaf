package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/guyeu9/Interactive-story-game-editor/internal/dataset"
)

// Row is the flattened form every backend persists: one JSON body per record
// plus the columns used for listing, filtering and search.
type Row struct {
	RecordSummary
	Text string
	Body []byte
}

// each calls fn for every record of d ordered by kind then position.
func each(d *dataset.Dataset, fn func(RecordSummary, any) error) error {
	for i, s := range d.Scenes {
		if err := fn(RecordSummary{Kind: dataset.KindScene, Position: i, ID: s.ID, Name: s.Name, Worldview: s.Worldview}, s); err != nil {
			return err
		}
	}
	for i, l := range d.Layers {
		if err := fn(RecordSummary{Kind: dataset.KindLayer, Position: i, ID: l.ID, Name: l.Name, Worldview: l.Worldview}, l); err != nil {
			return err
		}
	}
	for i, p := range d.Plays {
		if err := fn(RecordSummary{Kind: dataset.KindPlay, Position: i, ID: p.ID, Name: p.Name, Worldview: p.Worldview}, p); err != nil {
			return err
		}
	}
	for i, c := range d.Commands {
		if err := fn(RecordSummary{Kind: dataset.KindCommand, Position: i, ID: c.ID, Name: c.Name, Worldview: c.Worldview}, c); err != nil {
			return err
		}
	}
	return nil
}

// Rows flattens d into rows ordered by kind then position.
func Rows(d *dataset.Dataset) ([]Row, error) {
	var rows []Row
	err := each(d, func(sum RecordSummary, v any) error {
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", sum.Kind, sum.ID, err)
		}
		rows = append(rows, Row{RecordSummary: sum, Text: searchText(v), Body: body})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// searchText joins the human-readable fields of a record.
func searchText(v any) string {
	var parts []string
	switch r := v.(type) {
	case dataset.Scene:
		parts = append([]string{r.Name, r.Description}, r.Tags...)
	case dataset.Layer:
		parts = []string{r.Name}
	case dataset.Play:
		parts = append([]string{r.Name, r.Description, r.TriggerCondition, r.Result}, r.Tags...)
	case dataset.Command:
		parts = []string{r.Name, r.Description}
	}
	return strings.Join(parts, " ")
}

// Assemble rebuilds a dataset from rows in any order.
func Assemble(rows []Row) (*dataset.Dataset, error) {
	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return kindOrder(sorted[i].Kind) < kindOrder(sorted[j].Kind)
		}
		return sorted[i].Position < sorted[j].Position
	})

	d := &dataset.Dataset{}
	for _, r := range sorted {
		var err error
		switch r.Kind {
		case dataset.KindScene:
			var s dataset.Scene
			err = json.Unmarshal(r.Body, &s)
			d.Scenes = append(d.Scenes, s)
		case dataset.KindLayer:
			var l dataset.Layer
			err = json.Unmarshal(r.Body, &l)
			d.Layers = append(d.Layers, l)
		case dataset.KindPlay:
			var p dataset.Play
			err = json.Unmarshal(r.Body, &p)
			d.Plays = append(d.Plays, p)
		case dataset.KindCommand:
			var c dataset.Command
			err = json.Unmarshal(r.Body, &c)
			d.Commands = append(d.Commands, c)
		default:
			err = fmt.Errorf("unknown kind %q", r.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", r.Kind, r.ID, err)
		}
	}
	d.Normalize()
	return d, nil
}

func kindOrder(k dataset.Kind) int {
	for i, kind := range dataset.Kinds {
		if kind == k {
			return i
		}
	}
	return len(dataset.Kinds)
}

// Summaries lists the records of d matching kind and worldview. Empty
// filters match everything.
func Summaries(d *dataset.Dataset, kind dataset.Kind, worldview string) []RecordSummary {
	out := []RecordSummary{}
	_ = each(d, func(sum RecordSummary, _ any) error {
		if matches(sum, kind, worldview) {
			out = append(out, sum)
		}
		return nil
	})
	return out
}

func matches(r RecordSummary, kind dataset.Kind, worldview string) bool {
	return (kind == "" || r.Kind == kind) && (worldview == "" || r.Worldview == worldview)
}

// CountWorldviews groups every record of d by worldview. Records without a
// worldview are counted under the default label.
func CountWorldviews(d *dataset.Dataset) []WorldviewSummary {
	byName := map[string]*WorldviewSummary{}
	get := func(w string) *WorldviewSummary {
		w = dataset.WorldviewKey(w, dataset.DefaultWorldview)
		if byName[w] == nil {
			byName[w] = &WorldviewSummary{Worldview: w}
		}
		return byName[w]
	}
	for _, s := range d.Scenes {
		get(s.Worldview).Scenes++
	}
	for _, l := range d.Layers {
		get(l.Worldview).Layers++
	}
	for _, p := range d.Plays {
		get(p.Worldview).Plays++
	}
	for _, c := range d.Commands {
		get(c.Worldview).Commands++
	}

	out := make([]WorldviewSummary, 0, len(byName))
	for _, w := range byName {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Worldview < out[j].Worldview })
	return out
}

// MatchRows is the in-memory search used by backends without a text index.
// Name hits score above hits elsewhere in the text.
func MatchRows(rows []Row, query string, kind dataset.Kind, worldview string) []SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := []SearchResult{}
	for _, r := range rows {
		if !matches(r.RecordSummary, kind, worldview) {
			continue
		}
		var score float64
		switch {
		case strings.Contains(strings.ToLower(r.Name), needle):
			score = 2
		case strings.Contains(strings.ToLower(r.Text), needle):
			score = 1
		default:
			continue
		}
		out = append(out, SearchResult{RecordSummary: r.RecordSummary, Score: score, Snippet: Snippet(r.Text, needle)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Snippet returns the text within 20 runes of the first match of the
// lower-cased needle, with the match wrapped in **.
func Snippet(text, needle string) string {
	const radius = 20
	runes := []rune(text)
	lower := []rune(strings.ToLower(text))
	n := []rune(needle)
	if len(n) == 0 || len(lower) != len(runes) {
		return ""
	}
	at := -1
	for i := 0; i+len(n) <= len(lower); i++ {
		if string(lower[i:i+len(n)]) == needle {
			at = i
			break
		}
	}
	if at < 0 {
		return ""
	}
	start := max(0, at-radius)
	end := min(len(runes), at+len(n)+radius)
	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[start:at]))
	b.WriteString("**" + string(runes[at:at+len(n)]) + "**")
	b.WriteString(string(runes[at+len(n) : end]))
	if end < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}
