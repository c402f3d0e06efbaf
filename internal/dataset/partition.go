package dataset

// WorldviewKey returns w, or fallback when w is empty.
func WorldviewKey(w, fallback string) string {
	if w == "" {
		return fallback
	}
	return w
}

// Member is one record inside a Group along with its index in the input.
type Member[T any] struct {
	Index int
	Item  T
}

// Group holds the records of one worldview in input order.
type Group[T any] struct {
	Worldview string
	Members   []Member[T]
}

// Partition splits items by worldview. Groups appear in order of first
// occurrence and members keep their input order. Records with an empty
// worldview land in the fallback group.
func Partition[T any](items []T, worldviewOf func(T) string, fallback string) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)
	for i, item := range items {
		key := WorldviewKey(worldviewOf(item), fallback)
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, Group[T]{Worldview: key})
		}
		groups[g].Members = append(groups[g].Members, Member[T]{Index: i, Item: item})
	}
	return groups
}

func SceneWorldview(s Scene) string     { return s.Worldview }
func LayerWorldview(l Layer) string     { return l.Worldview }
func PlayWorldview(p Play) string       { return p.Worldview }
func CommandWorldview(c Command) string { return c.Worldview }
