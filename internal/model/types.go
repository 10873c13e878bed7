package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Brownie44l1/plant-disease-api/internal/disease"
)

const (
	// ImageSize is the square input resolution of the network.
	ImageSize = 224
	// Channels is the number of color planes fed to the network.
	Channels = 3
)

// InputShape is the NCHW shape of a single preprocessed image.
var InputShape = []int64{1, Channels, ImageSize, ImageSize}

type Tensor struct {
	Shape []int64
	Data  []float32
}

func NewTensor(shape ...int64) Tensor {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	s := make([]int64, len(shape))
	copy(s, shape)
	return Tensor{Shape: s, Data: make([]float32, n)}
}

// Metadata describes the tensors an exported network declares. Empty names are
// discovered from the model file.
type Metadata struct {
	InputName   string  `json:"input_name"`
	OutputName  string  `json:"output_name"`
	InputShape  []int64 `json:"input_shape"`
	OutputShape []int64 `json:"output_shape"`
}

func DefaultMetadata() Metadata {
	in := make([]int64, len(InputShape))
	copy(in, InputShape)
	return Metadata{
		InputShape:  in,
		OutputShape: []int64{1, int64(disease.Count())},
	}
}

// LoadMetadata reads a JSON sidecar. Fields it omits keep their defaults.
func LoadMetadata(path string) (Metadata, error) {
	meta := DefaultMetadata()

	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return meta, err
	}
	return meta, nil
}

// Validate checks that the shapes describe the fixed classifier architecture.
func (m Metadata) Validate() error {
	if !sameShape(m.InputShape, InputShape) {
		return fmt.Errorf("input shape %v does not match %v", m.InputShape, InputShape)
	}
	if len(m.OutputShape) != 2 || m.OutputShape[0] != 1 || m.OutputShape[1] != int64(disease.Count()) {
		return fmt.Errorf("output shape %v does not match [1 %d]", m.OutputShape, disease.Count())
	}
	return nil
}

func sameShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
