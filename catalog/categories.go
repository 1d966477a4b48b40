package catalog

import (
	"slices"

	"agroverse/globals"
)

// All disables the category predicate. The empty string does too.
const All = globals.AllCategories

var (
	StoreCategories = []string{
		All, "Power Weeders", "Lawn Mowers", "Chain Saws", "Brush Cutters", "Hedge Trimmers",
		"Earth Augers", "Hand Tools", "Sprayers", "Spreaders", "Water Pumps", "Generators",
	}
	ProduceCategories   = []string{All, "Vegetables", "Fruits", "Flowers", "Seeds", "Plants"}
	EquipmentCategories = []string{All, "Tractor", "Weeder", "Mower", "Sprayer", "Tool"}
)

// Categories lists the distinct non-empty categories present in items, sorted.
func Categories[T any](items []T, category func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		c := category(it)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
