// Package advisory is KrishiMitra: crop advice, the sowing calendar, mandi
// price trends, weather and farming news. Weather and news go through the
// advisory proxy so upstream API keys stay on the server.
package advisory

var (
	CropOptions = []string{"Wheat", "Rice", "Maize", "Cotton", "Soybean"}
	SoilOptions = []string{"Loamy", "Clay", "Sandy", "Black", "Red"}
)

const SelectBothMessage = "Please select both crop and soil type."

var adviceTable = map[string]map[string]string{
	"Wheat": {
		"Loamy": "Wheat grows best in well-drained loamy soil with good fertility. Ensure timely irrigation and use nitrogen-rich fertilizers.",
		"Clay":  "Wheat can grow in clay soil, but ensure proper drainage and avoid waterlogging.",
		"Sandy": "Add organic matter to sandy soil for wheat. Frequent irrigation is needed.",
		"Black": "Black soil is suitable for wheat. Maintain soil moisture and use balanced fertilizers.",
		"Red":   "Red soil needs organic amendments for wheat. Use compost and irrigate regularly.",
	},
	"Rice": {
		"Loamy": "Loamy soil is good for rice. Maintain standing water during growth.",
		"Clay":  "Clay soil is ideal for rice. Ensure proper puddling before transplanting.",
		"Sandy": "Rice in sandy soil needs frequent irrigation and organic matter.",
		"Black": "Black soil can be used for rice with proper water management.",
		"Red":   "Red soil needs organic matter and regular irrigation for rice.",
	},
	"Maize": {
		"Loamy": "Maize thrives in loamy soil. Use phosphorus-rich fertilizers.",
		"Clay":  "Clay soil needs good drainage for maize. Avoid waterlogging.",
		"Sandy": "Sandy soil for maize requires frequent watering and organic matter.",
		"Black": "Black soil is good for maize. Ensure timely sowing.",
		"Red":   "Red soil needs organic amendments for maize.",
	},
	"Cotton": {
		"Loamy": "Loamy soil is excellent for cotton. Use potash-rich fertilizers.",
		"Clay":  "Cotton can grow in clay soil with good drainage.",
		"Sandy": "Sandy soil is not ideal for cotton. Add organic matter.",
		"Black": "Black soil is best for cotton. Ensure deep ploughing.",
		"Red":   "Red soil needs organic matter for cotton.",
	},
	"Soybean": {
		"Loamy": "Soybean prefers loamy soil. Use phosphorus and potassium fertilizers.",
		"Clay":  "Clay soil needs good drainage for soybean.",
		"Sandy": "Sandy soil for soybean requires frequent irrigation.",
		"Black": "Black soil is suitable for soybean.",
		"Red":   "Red soil needs organic matter for soybean.",
	},
}

// Advice returns the recommendation for a crop and soil pair. Unknown or
// missing choices get SelectBothMessage.
func Advice(crop, soil string) string {
	if text, ok := adviceTable[crop][soil]; ok {
		return text
	}
	return SelectBothMessage
}
