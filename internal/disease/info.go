package disease

import "strings"

const separator = "___"

// Info is the human-facing breakdown of a label.
type Info struct {
	Plant           string   `json:"plant"`
	Condition       string   `json:"condition"`
	Healthy         bool     `json:"is_healthy"`
	Recommendations []string `json:"recommendations"`
}

var recommendations = map[string][]string{
	"Apple___Apple_scab": {
		"Remove infected leaves and branches",
		"Improve air circulation",
		"Apply fungicide if needed",
		"Prune in late winter",
	},
	"Apple___Black_rot": {
		"Remove infected fruit and branches",
		"Prune dead wood",
		"Apply copper fungicide",
		"Improve drainage",
	},
	"Tomato___Early_blight": {
		"Remove lower leaves",
		"Improve air circulation",
		"Water at soil level only",
		"Apply fungicide weekly",
	},
	"Tomato___Late_blight": {
		"Remove infected leaves immediately",
		"Improve air circulation",
		"Apply copper or chlorothalonil fungicide",
		"Avoid overhead watering",
	},
	"Potato___Early_blight": {
		"Remove infected leaves",
		"Mulch around plants",
		"Apply fungicide",
		"Rotate crops",
	},
	"Potato___Late_blight": {
		"Remove infected plants",
		"Apply fungicide immediately",
		"Improve drainage",
		"Avoid overhead watering",
	},
}

var genericRecommendations = []string{
	"Consult with a local agricultural extension office",
	"Take photos for professional diagnosis",
	"Isolate affected plants",
	"Monitor for spread",
}

// Parse splits a label such as "Tomato___Late_blight" into plant and
// condition and attaches care recommendations. Labels that are not in the
// table still parse; they get the generic recommendations.
func Parse(label string) Info {
	plant, rest, _ := strings.Cut(label, separator)
	condition, _, _ := strings.Cut(rest, separator)
	if plant == "" {
		plant = Unknown
	}
	if condition == "" {
		condition = Unknown
	}

	recs, ok := recommendations[label]
	if !ok {
		recs = genericRecommendations
	}
	out := make([]string, len(recs))
	copy(out, recs)

	return Info{
		Plant:           plant,
		Condition:       condition,
		Healthy:         strings.EqualFold(condition, "healthy"),
		Recommendations: out,
	}
}
