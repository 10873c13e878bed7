package disease

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabelTable(t *testing.T) {
	require.Equal(t, 39, Count())
	require.Equal(t, "Apple___Apple_scab", Label(0))
	require.Equal(t, "Background_without_leaves", Label(4))
	require.Equal(t, "Tomato___healthy", Label(38))
}

func TestLabelOutOfRange(t *testing.T) {
	require.Equal(t, Unknown, Label(-1))
	require.Equal(t, Unknown, Label(39))
	require.Equal(t, Unknown, Label(1000))
}

func TestIsHealthy(t *testing.T) {
	require.True(t, IsHealthy("Apple___healthy"))
	require.True(t, IsHealthy("Corn___HEALTHY"))
	require.False(t, IsHealthy("Apple___Apple_scab"))
	require.False(t, IsHealthy(Unknown))
}

func TestHealthyCount(t *testing.T) {
	n := 0
	for _, l := range Labels {
		if IsHealthy(l) {
			n++
		}
	}
	require.Equal(t, 12, n)
}

func TestParse(t *testing.T) {
	info := Parse("Tomato___Late_blight")
	require.Equal(t, "Tomato", info.Plant)
	require.Equal(t, "Late_blight", info.Condition)
	require.False(t, info.Healthy)
	require.Contains(t, info.Recommendations, "Avoid overhead watering")

	info = Parse("Pepper,_bell___healthy")
	require.Equal(t, "Pepper,_bell", info.Plant)
	require.True(t, info.Healthy)
	require.Equal(t, genericRecommendations, info.Recommendations)
}

func TestParseWithoutSeparator(t *testing.T) {
	info := Parse("Background_without_leaves")
	require.Equal(t, "Background_without_leaves", info.Plant)
	require.Equal(t, Unknown, info.Condition)
	require.False(t, info.Healthy)

	info = Parse("")
	require.Equal(t, Unknown, info.Plant)
	require.Equal(t, Unknown, info.Condition)
}

func TestParseKeepsSecondSegmentOnly(t *testing.T) {
	info := Parse("Tomato___healthy___extra")
	require.Equal(t, "Tomato", info.Plant)
	require.Equal(t, "healthy", info.Condition)
	require.True(t, info.Healthy)

	info = Parse("A___B___C")
	require.Equal(t, "B", info.Condition)
}

func TestParseReturnsCopy(t *testing.T) {
	info := Parse("Apple___Black_rot")
	info.Recommendations[0] = "changed"
	require.Equal(t, "Remove infected fruit and branches", Parse("Apple___Black_rot").Recommendations[0])
}
