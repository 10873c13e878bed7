package predictor

import (
	"errors"
	"fmt"
)

// ErrNotReady is reported by a predictor that holds no usable model.
var ErrNotReady = errors.New("model is not loaded")

// ModelLoadError means the artifact is missing, unreadable or has the wrong
// architecture. It is fatal: a process cannot serve without a model.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// InvalidImageError means the input could not be read, decoded or used.
// It only affects the call that produced it.
type InvalidImageError struct {
	Err error
}

func (e *InvalidImageError) Error() string {
	return "invalid image: " + e.Err.Error()
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

func invalidImage(format string, args ...any) error {
	return &InvalidImageError{Err: fmt.Errorf(format, args...)}
}
