package content

// Filter keeps items matching language and collection. All disables either
// filter.
func Filter(items []Item, language, collection string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if language != All && it.Lang() != language {
			continue
		}
		if collection != All && it.Collection != collection {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Collections lists All followed by each distinct collection in first-seen
// order.
func Collections(items []Item) []string {
	out := []string{All}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.Collection]; ok {
			continue
		}
		seen[it.Collection] = struct{}{}
		out = append(out, it.Collection)
	}
	return out
}

// IndexOf returns the position of id in items, or -1.
func IndexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
