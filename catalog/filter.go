package catalog

import "strings"

// Listing is satisfied by every catalogue record in models.
type Listing interface {
	Label() string
	Group() string
}

// Keys tells Filter how to read a record.
type Keys[T any] struct {
	Name     func(T) string
	Category func(T) string
}

// ListingKeys reads name and category through the Listing methods.
func ListingKeys[T Listing]() Keys[T] {
	return Keys[T]{
		Name:     func(v T) string { return v.Label() },
		Category: func(v T) string { return v.Group() },
	}
}

type Query struct {
	Text     string
	Category string
}

func (q Query) anyCategory() bool {
	return q.Category == "" || q.Category == All
}

// Filter keeps items whose name contains q.Text (case-insensitive) and
// whose category equals q.Category. Order is preserved and the input is
// never modified.
func Filter[T any](items []T, q Query, keys Keys[T]) []T {
	needle := strings.ToLower(q.Text)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if needle != "" && !strings.Contains(strings.ToLower(keys.Name(it)), needle) {
			continue
		}
		if !q.anyCategory() && keys.Category(it) != q.Category {
			continue
		}
		out = append(out, it)
	}
	return out
}
