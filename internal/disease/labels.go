package disease

import "strings"

// Unknown is returned for class indices outside the label table.
const Unknown = "Unknown"

// Labels maps the classifier's output index to its species/disease name.
// The order is fixed by the trained network and must not change.
var Labels = [...]string{
	"Apple___Apple_scab",
	"Apple___Black_rot",
	"Apple___Cedar_apple_rust",
	"Apple___healthy",
	"Background_without_leaves",
	"Blueberry___healthy",
	"Cherry___Powdery_mildew",
	"Cherry___healthy",
	"Corn___Cercospora_leaf_spot Gray_leaf_spot",
	"Corn___Common_rust",
	"Corn___Northern_Leaf_Blight",
	"Corn___healthy",
	"Grape___Black_rot",
	"Grape___Esca_(Black_Measles)",
	"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)",
	"Grape___healthy",
	"Orange___Haunglongbing_(Citrus_greening)",
	"Peach___Bacterial_spot",
	"Peach___healthy",
	"Pepper,_bell___Bacterial_spot",
	"Pepper,_bell___healthy",
	"Potato___Early_blight",
	"Potato___Late_blight",
	"Potato___healthy",
	"Raspberry___healthy",
	"Soybean___healthy",
	"Squash___Powdery_mildew",
	"Strawberry___Leaf_scorch",
	"Strawberry___healthy",
	"Tomato___Bacterial_spot",
	"Tomato___Early_blight",
	"Tomato___Late_blight",
	"Tomato___Leaf_Mold",
	"Tomato___Septoria_leaf_spot",
	"Tomato___Spider_mites Two-spotted_spider_mite",
	"Tomato___Target_Spot",
	"Tomato___Tomato_Yellow_Leaf_Curl_Virus",
	"Tomato___Tomato_mosaic_virus",
	"Tomato___healthy",
}

func Count() int {
	return len(Labels)
}

func Label(i int) string {
	if i < 0 || i >= len(Labels) {
		return Unknown
	}
	return Labels[i]
}

// IsHealthy reports whether label names a healthy plant.
func IsHealthy(label string) bool {
	return strings.Contains(strings.ToLower(label), "healthy")
}
