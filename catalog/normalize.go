package catalog

import "strings"

// canonical maps lowercased spellings to the label used by the backend.
var canonical = map[string]string{
	"flower":     "Flowers",
	"flowers":    "Flowers",
	"plant":      "Plants",
	"plants":     "Plants",
	"fruit":      "Fruits",
	"fruits":     "Fruits",
	"vegetable":  "Vegetables",
	"vegetables": "Vegetables",
	"seed":       "Seeds",
	"seeds":      "Seeds",
}

// NormalizeCategory maps a free-text category onto its canonical label.
// Anything outside the synonym set, padded input included, is returned
// unchanged.
func NormalizeCategory(raw string) string {
	if label, ok := canonical[strings.ToLower(raw)]; ok {
		return label
	}
	return raw
}

const PlaceholderImage = "https://via.placeholder.com/70"

var images = map[string]string{
	"fruits":     "https://png.pngtree.com/png-clipart/20241109/original/pngtree-beautiful-various-fruits-item-and-healthy-clipart-png-image_16788969.png",
	"vegetables": "https://www.lalpathlabs.com/blog/wp-content/uploads/2019/01/Fruits-and-Vegetables.jpg",
	"seeds":      "https://nyspiceshop.com/cdn/shop/articles/TYPES_OF_NUTS_AND_SEEDS_AND_THEIR_HEALTH_BENEFITS.jpeg?v=1730226897",
	"flowers":    "https://images.unsplash.com/photo-1713791234964-9bd41543a20f?fm=jpg&q=60&w=3000&ixlib=rb-4.1.0&ixid=M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D",
	"plants":     "https://twinflowerstudio.com/cdn/shop/collections/PXL_20230424_215121564.PORTRAIT_1024x1024_2x_df27543e-15d5-4cea-9074-98d86bdfab08.webp?v=1746492760",
}

// CategoryImage returns the stock image for a produce category, or the
// placeholder. Synonyms resolve through NormalizeCategory first.
func CategoryImage(category string) string {
	if url, ok := images[strings.ToLower(NormalizeCategory(category))]; ok {
		return url
	}
	return PlaceholderImage
}
