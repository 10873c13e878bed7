package predictor

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/Brownie44l1/plant-disease-api/internal/model"
)

// Preprocess turns an arbitrary image into the [1,3,224,224] tensor the
// network was trained on. Channels are scaled to [0,1] and nothing else;
// no mean/std standardization is applied.
func Preprocess(img image.Image) (model.Tensor, error) {
	if img == nil {
		return model.Tensor{}, invalidImage("no image")
	}

	rgb, err := toRGB(img)
	if err != nil {
		return model.Tensor{}, err
	}

	var resized image.Image = rgb
	if rgb.Bounds().Dx() != model.ImageSize || rgb.Bounds().Dy() != model.ImageSize {
		resized = resize.Resize(model.ImageSize, model.ImageSize, rgb, resize.Bicubic)
	}

	return toTensor(resized), nil
}

// toRGB drops alpha without compositing and expands gray and paletted images
// to three channels. The result is opaque and anchored at the origin.
func toRGB(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, invalidImage("image has zero dimensions (%dx%d)", b.Dx(), b.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst, nil
}

// toTensor lays the pixels out channel-first: all R, then all G, then all B.
func toTensor(img image.Image) model.Tensor {
	t := model.NewTensor(model.InputShape...)

	bounds := img.Bounds()
	width, height := model.ImageSize, model.ImageSize
	plane := width * height

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			pixelIndex := y*width + x
			t.Data[pixelIndex] = float32(r>>8) / 255.0
			t.Data[plane+pixelIndex] = float32(g>>8) / 255.0
			t.Data[2*plane+pixelIndex] = float32(b>>8) / 255.0
		}
	}
	return t
}
