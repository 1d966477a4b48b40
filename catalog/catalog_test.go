package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroverse/models"
)

func TestNormalizeCategorySynonyms(t *testing.T) {
	cases := map[string]string{
		"flower": "Flowers", "FLOWERS": "Flowers",
		"Plant": "Plants", "plants": "Plants",
		"fruit": "Fruits", "FrUiTs": "Fruits",
		"vegetable": "Vegetables", "Vegetables": "Vegetables",
		"seed": "Seeds", "SEEDS": "Seeds",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCategory(in), in)
	}
}

func TestNormalizeCategoryIdentity(t *testing.T) {
	for _, in := range []string{"", "Grains", "spices", "Tractor", "seedling", " flower", "seeds ", "\tFruit"} {
		assert.Equal(t, in, NormalizeCategory(in))
	}
}

func TestCategoryImage(t *testing.T) {
	assert.Contains(t, CategoryImage("fruit"), "pngtree")
	assert.Contains(t, CategoryImage("Vegetables"), "lalpathlabs")
	assert.Contains(t, CategoryImage("Flowers"), "unsplash")
	assert.Equal(t, PlaceholderImage, CategoryImage("Grains"))
}

func produce() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Tomato", Category: "Vegetables", Price: 20},
		{ID: "2", Name: "Mango", Category: "Fruits", Price: 80},
		{ID: "3", Name: "Rose", Category: "Flowers", Price: 15},
		{ID: "4", Name: "Cherry Tomato", Category: "Vegetables", Price: 40},
		{ID: "5", Name: "Banana", Category: "Fruits", Price: 30},
	}
}

func TestFilterMatchAll(t *testing.T) {
	items := produce()
	keys := ListingKeys[models.Product]()
	assert.Equal(t, items, Filter(items, Query{Category: All}, keys))
	assert.Equal(t, items, Filter(items, Query{}, keys))
}

func TestFilterPredicate(t *testing.T) {
	items := produce()
	keys := ListingKeys[models.Product]()

	got := Filter(items, Query{Text: "tomato", Category: "Vegetables"}, keys)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)

	for _, q := range []Query{{Text: "AN"}, {Category: "Fruits"}, {Text: "o", Category: "Flowers"}} {
		for _, p := range Filter(items, q, keys) {
			assert.True(t, strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Text)))
			if q.Category != "" {
				assert.Equal(t, q.Category, p.Category)
			}
		}
	}
	assert.Empty(t, Filter(items, Query{Text: "tomato", Category: "Fruits"}, keys))
}

func TestFilterDoesNotMutate(t *testing.T) {
	items := produce()
	before := append([]models.Product(nil), items...)
	_ = Filter(items, Query{Text: "a"}, ListingKeys[models.Product]())
	assert.Equal(t, before, items)
}

func TestGroupSortedLossless(t *testing.T) {
	items := produce()
	sections := Group(items, models.Product.Group)

	require.Len(t, sections, 3)
	assert.Equal(t, "Flowers", sections[0].Title)
	assert.Equal(t, "Fruits", sections[1].Title)
	assert.Equal(t, "Vegetables", sections[2].Title)
	assert.Equal(t, []string{"2", "5"}, []string{sections[1].Items[0].ID, sections[1].Items[1].ID})

	flat := Flatten(sections)
	assert.ElementsMatch(t, items, flat)
	assert.Len(t, flat, len(items))
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group([]models.Product(nil), models.Product.Group))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Flowers", "Fruits", "Vegetables"}, Categories(produce(), models.Product.Group))
}
