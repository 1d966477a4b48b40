package catalog

import "sort"

// Section is one category heading and the items under it.
type Section[T any] struct {
	Title string
	Items []T
}

// Group partitions items by key. Sections are sorted by title and items
// keep their input order within a section.
func Group[T any](items []T, key func(T) string) []Section[T] {
	index := make(map[string]int)
	var sections []Section[T]
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(sections)
			index[k] = i
			sections = append(sections, Section[T]{Title: k})
		}
		sections[i].Items = append(sections[i].Items, it)
	}
	sort.SliceStable(sections, func(a, b int) bool {
		return sections[a].Title < sections[b].Title
	})
	return sections
}

func Flatten[T any](sections []Section[T]) []T {
	var out []T
	for _, s := range sections {
		out = append(out, s.Items...)
	}
	return out
}
