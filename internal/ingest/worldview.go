package ingest

import (
	"fmt"
	"strings"
)

const inferredNameRunes = 10

// ResolveWorldview picks the worldview an imported dataset is filed under:
// the explicit label, then the first scene's worldview, then a guess from the
// first scene's name, then the first layer's name, then a numbered label.
func ResolveWorldview(src Source, hints []Hint) string {
	if src.Worldview != "" {
		return src.Worldview
	}
	d := src.Dataset
	if len(d.Scenes) > 0 {
		first := d.Scenes[0]
		if first.Worldview != "" {
			return first.Worldview
		}
		if first.Name != "" {
			return inferFromName(first.Name, hints)
		}
	}
	if len(d.Layers) > 0 && d.Layers[0].Name != "" {
		return d.Layers[0].Name
	}
	return fmt.Sprintf("数据集%d", src.Index+1)
}

func inferFromName(name string, hints []Hint) string {
	for _, h := range hints {
		if h.Match != "" && strings.Contains(name, h.Match) {
			return h.Worldview
		}
	}
	runes := []rune(name)
	if len(runes) > inferredNameRunes {
		return string(runes[:inferredNameRunes])
	}
	return name
}
