package model

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var envMu sync.Mutex

// SetLibraryPath points the runtime at a specific onnxruntime shared library.
// It must be called before the first NewSession.
func SetLibraryPath(path string) {
	if path != "" {
		ort.SetSharedLibraryPath(path)
	}
}

// Session runs the exported network. Tensors are allocated per call, so a
// Session may be shared between goroutines.
type Session struct {
	session  *ort.DynamicAdvancedSession
	Metadata Metadata
}

// NewSession loads the model at modelPath and checks that its declared inputs
// and outputs match meta.
func NewSession(modelPath string, meta Metadata) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	if err := initEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	meta, err = resolveIO(meta, inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("architecture mismatch: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session:  session,
		Metadata: meta,
	}, nil
}

// Forward runs one inference pass and returns the raw class scores.
func (s *Session) Forward(input Tensor) ([]float32, error) {
	if s == nil || s.session == nil {
		return nil, errors.New("session is closed")
	}
	if !sameShape(input.Shape, s.Metadata.InputShape) {
		return nil, fmt.Errorf("input shape %v, want %v", input.Shape, s.Metadata.InputShape)
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(s.Metadata.OutputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	if err := s.session.Run([]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	scores := make([]float32, len(outputTensor.GetData()))
	copy(scores, outputTensor.GetData())
	return scores, nil
}

// Close releases the session. The runtime environment is process-wide and
// stays up until Shutdown.
func (s *Session) Close() {
	if s == nil || s.session == nil {
		return
	}
	s.session.Destroy()
	s.session = nil
}

// Shutdown tears down the onnxruntime environment shared by all sessions.
func Shutdown() {
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		ort.DestroyEnvironment()
	}
}

func initEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	return ort.InitializeEnvironment()
}

// resolveIO matches the declared graph inputs/outputs against meta and fills
// in tensor names the metadata left empty.
func resolveIO(meta Metadata, inputs, outputs []ort.InputOutputInfo) (Metadata, error) {
	in, err := pickTensor(inputs, meta.InputName, "input")
	if err != nil {
		return meta, err
	}
	if !dimsMatch(in.Dimensions, meta.InputShape) {
		return meta, fmt.Errorf("input %q has shape %v, want %v", in.Name, in.Dimensions, meta.InputShape)
	}

	out, err := pickTensor(outputs, meta.OutputName, "output")
	if err != nil {
		return meta, err
	}
	if !dimsMatch(out.Dimensions, meta.OutputShape) {
		return meta, fmt.Errorf("output %q has shape %v, want %v", out.Name, out.Dimensions, meta.OutputShape)
	}

	meta.InputName = in.Name
	meta.OutputName = out.Name
	return meta, nil
}

func pickTensor(infos []ort.InputOutputInfo, name, kind string) (ort.InputOutputInfo, error) {
	if name == "" {
		if len(infos) != 1 {
			return ort.InputOutputInfo{}, fmt.Errorf("model declares %d %ss, want 1", len(infos), kind)
		}
		name = infos[0].Name
	}
	for _, info := range infos {
		if info.Name != name {
			continue
		}
		if info.DataType != ort.TensorElementDataTypeFloat {
			return info, fmt.Errorf("%s %q is %v, want float32", kind, name, info.DataType)
		}
		return info, nil
	}
	return ort.InputOutputInfo{}, fmt.Errorf("model has no %s named %q", kind, name)
}

// dimsMatch treats negative declared dimensions as dynamic.
func dimsMatch(declared ort.Shape, want []int64) bool {
	if len(declared) != len(want) {
		return false
	}
	for i, d := range declared {
		if d >= 0 && d != want[i] {
			return false
		}
	}
	return true
}
