package predictor

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/plant-disease-api/internal/model"
)

func TestPreprocessExactPixels(t *testing.T) {
	img := solid(model.ImageSize, model.ImageSize, color.RGBA{R: 255, G: 128, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	tensor, err := Preprocess(img)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3, 224, 224}, tensor.Shape)
	require.Len(t, tensor.Data, 3*224*224)

	plane := 224 * 224
	require.Equal(t, float32(1), tensor.Data[0])
	require.Equal(t, float32(128)/255, tensor.Data[plane])
	require.Equal(t, float32(0), tensor.Data[2*plane])

	require.Equal(t, float32(1)/255, tensor.Data[1])
	require.Equal(t, float32(2)/255, tensor.Data[plane+1])
	require.Equal(t, float32(3)/255, tensor.Data[2*plane+1])
}

func TestPreprocessResizes(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {50, 400}, {1024, 768}} {
		img := solid(size.X, size.Y, color.RGBA{R: 100, G: 150, B: 200, A: 255})
		tensor, err := Preprocess(img)
		require.NoError(t, err)
		require.Equal(t, model.InputShape, tensor.Shape)

		for i, v := range tensor.Data {
			require.GreaterOrEqual(t, v, float32(0), "index %d", i)
			require.LessOrEqual(t, v, float32(1), "index %d", i)
		}
		require.InDelta(t, 100.0/255, tensor.Data[0], 2.0/255)
	}
}

func TestPreprocessDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 224, 224))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 10, 20, 30, 0
	}

	tensor, err := Preprocess(img)
	require.NoError(t, err)
	require.Equal(t, float32(10)/255, tensor.Data[0])
	require.Equal(t, float32(20)/255, tensor.Data[224*224])
	require.Equal(t, float32(30)/255, tensor.Data[2*224*224])
}

func TestPreprocessGrayReplicatesChannels(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 224, 224))
	for i := range img.Pix {
		img.Pix[i] = 100
	}

	tensor, err := Preprocess(img)
	require.NoError(t, err)
	plane := 224 * 224
	for c := 0; c < 3; c++ {
		require.Equal(t, float32(100)/255, tensor.Data[c*plane+500])
	}
}

func TestPreprocessHandlesOffsetBounds(t *testing.T) {
	base := solid(300, 300, color.RGBA{A: 255})
	for y := 10; y < 234; y++ {
		for x := 20; x < 244; x++ {
			base.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	sub := base.SubImage(image.Rect(20, 10, 244, 234))

	tensor, err := Preprocess(sub)
	require.NoError(t, err)
	for _, v := range tensor.Data[:224*224] {
		require.Equal(t, float32(1), v)
	}
}

func TestSoftmax(t *testing.T) {
	probs, err := softmax([]float32{1, 2, 3})
	require.NoError(t, err)

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-12)
	require.InDelta(t, math.Exp(3)/(math.Exp(1)+math.Exp(2)+math.Exp(3)), probs[2], 1e-12)

	probs, err = softmax([]float32{1000, 1000})
	require.NoError(t, err)
	require.InDelta(t, 0.5, probs[0], 1e-12)

	_, err = softmax([]float32{1, float32(math.Inf(1))})
	require.Error(t, err)
}

func TestTopK(t *testing.T) {
	got := topK([]float64{0.1, 0.3, 0.3, 0.05, 0.25}, 3)
	want := []ranked{{1, 0.3}, {2, 0.3}, {4, 0.25}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(ranked{})); diff != "" {
		t.Errorf("topK mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, topK([]float64{0.5, 0.5}, 3), 2)
}

func TestResultJSONSuccess(t *testing.T) {
	res, err := postprocess(peaked(3))
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, true, fields["success"])
	require.Equal(t, "Apple___healthy", fields["prediction"])
	require.Equal(t, float64(3), fields["class_index"])
	require.Equal(t, true, fields["is_healthy"])
	require.Len(t, fields["top_predictions"], 3)
	require.NotContains(t, fields, "error")

	top := fields["top_predictions"].([]any)[0].(map[string]any)
	require.Equal(t, "Apple___healthy", top["class"])
	require.Equal(t, fields["confidence"], top["confidence"])

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	back.Err = nil
	require.Equal(t, res, back)
}

func TestResultJSONFailure(t *testing.T) {
	data, err := json.Marshal(Failure(errors.New("cannot identify image file")))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"error":"cannot identify image file"}`, string(data))

	data, err = json.Marshal(Failure(nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"error":"unknown error"}`, string(data))
}
