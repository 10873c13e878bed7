package predictor

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds width*height before any pixel data is decoded. Larger
// images are refused so a small compressed payload cannot exhaust memory.
const MaxPixels = 178956970

// Decode reads an encoded image in any registered format. The header is
// checked against MaxPixels first.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidImageError{Err: err}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &InvalidImageError{Err: err}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, invalidImage("image size (%dx%d) exceeds limit of %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &InvalidImageError{Err: err}
	}
	return img, nil
}

// DecodeBase64 decodes a base64 image payload. A leading data URL header
// ("data:image/png;base64,") is ignored.
func DecodeBase64(s string) (image.Image, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, invalidImage("empty image payload")
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, invalidImage("bad base64 payload: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// PredictFile decodes the image at path and classifies it.
func (p *Predictor) PredictFile(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Failure(&InvalidImageError{Err: err})
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return Failure(err)
	}
	return p.Predict(img)
}

func (p *Predictor) PredictBytes(data []byte) Result {
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Failure(err)
	}
	return p.Predict(img)
}

func (p *Predictor) PredictBase64(s string) Result {
	img, err := DecodeBase64(s)
	if err != nil {
		return Failure(err)
	}
	return p.Predict(img)
}
