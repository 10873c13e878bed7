package predictor

import "encoding/json"

type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Result is the outcome of a single prediction. Callers must check Success
// before reading any other field.
type Result struct {
	Success        bool         `json:"success"`
	Prediction     string       `json:"prediction"`
	Confidence     float64      `json:"confidence"`
	ClassIndex     int          `json:"class_index"`
	TopPredictions []Prediction `json:"top_predictions"`
	IsHealthy      bool         `json:"is_healthy"`
	Error          string       `json:"error"`

	// Err keeps the typed cause of a failure for errors.As.
	Err error `json:"-"`
}

type successJSON struct {
	Success        bool         `json:"success"`
	Prediction     string       `json:"prediction"`
	Confidence     float64      `json:"confidence"`
	ClassIndex     int          `json:"class_index"`
	TopPredictions []Prediction `json:"top_predictions"`
	IsHealthy      bool         `json:"is_healthy"`
}

type failureJSON struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarshalJSON emits only the keys that belong to the outcome: the prediction
// fields on success, the error string on failure.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureJSON{Error: r.Error})
	}
	return json.Marshal(successJSON{
		Success:        true,
		Prediction:     r.Prediction,
		Confidence:     r.Confidence,
		ClassIndex:     r.ClassIndex,
		TopPredictions: r.TopPredictions,
		IsHealthy:      r.IsHealthy,
	})
}

func Failure(err error) Result {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result{Error: msg, Err: err}
}
