// Package predictor turns leaf photos into plant disease predictions.
//
// A Predictor owns one loaded model. Preprocessing, the forward pass and
// postprocessing run synchronously in the caller's goroutine and write no
// shared state, so a Ready predictor may be used from several goroutines.
package predictor

import (
	"fmt"
	"image"

	"github.com/Brownie44l1/plant-disease-api/internal/model"
)

// Model is the opaque trained network: a pure function from an input tensor
// to one raw score per class.
type Model interface {
	Forward(input model.Tensor) ([]float32, error)
}

type LoadFunc func(path string) (Model, error)

type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Predictor runs the prediction pipeline against one model. The zero value
// is Uninitialized and rejects every prediction.
type Predictor struct {
	model   Model
	state   State
	loadErr error
}

// New wraps an already loaded model. A nil model yields an Uninitialized
// predictor.
func New(m Model) *Predictor {
	if m == nil {
		return &Predictor{}
	}
	return &Predictor{model: m, state: StateReady}
}

// Open loads the artifact at path. On failure the returned Predictor is in
// StateFailed and the error is a *ModelLoadError.
func Open(path string, load LoadFunc) (*Predictor, error) {
	m, err := load(path)
	if err == nil && m == nil {
		err = fmt.Errorf("loader returned no model")
	}
	if err != nil {
		loadErr := &ModelLoadError{Path: path, Err: err}
		Logf("model load failed: %v", loadErr)
		return &Predictor{state: StateFailed, loadErr: loadErr}, loadErr
	}

	Logf("model loaded from %s", path)
	return &Predictor{model: m, state: StateReady}, nil
}

func (p *Predictor) State() State {
	if p == nil {
		return StateUninitialized
	}
	return p.state
}

// Predict classifies img. It never panics and never returns an error:
// every failure is reported as a Result with Success false.
func (p *Predictor) Predict(img image.Image) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure(fmt.Errorf("prediction aborted: %v", r))
		}
	}()

	if p.State() != StateReady {
		return Failure(p.notReady())
	}

	input, err := Preprocess(img)
	if err != nil {
		return Failure(err)
	}

	scores, err := p.model.Forward(input)
	if err != nil {
		return Failure(fmt.Errorf("forward pass: %w", err))
	}

	res, err = postprocess(scores)
	if err != nil {
		return Failure(fmt.Errorf("postprocess: %w", err))
	}
	return res
}

// Close releases the model if it holds native resources. Afterwards the
// predictor is Failed.
func (p *Predictor) Close() {
	if p == nil {
		return
	}
	if c, ok := p.model.(interface{ Close() }); ok {
		c.Close()
	}
	p.model = nil
	p.state = StateFailed
	p.loadErr = fmt.Errorf("predictor closed: %w", ErrNotReady)
}

func (p *Predictor) notReady() error {
	if p != nil && p.loadErr != nil {
		return p.loadErr
	}
	return ErrNotReady
}
