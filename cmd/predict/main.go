// Command predict classifies one leaf photo and prints the result as JSON.
//
//	predict <image_path>
//
// The exit code is 0 when the prediction succeeded and 1 otherwise. Diagnostics
// go to stderr; stdout carries only the JSON document.
package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"

	"github.com/Brownie44l1/plant-disease-api/internal/config"
	"github.com/Brownie44l1/plant-disease-api/internal/container"
	"github.com/Brownie44l1/plant-disease-api/internal/predictor"
)

// ErrUsage is reported when the command line is malformed. The text is the
// usage line callers already match on, hence the capital.
var ErrUsage = errors.New("Usage: predict <image_path>")

type openFunc func() (*predictor.Predictor, error)

func main() {
	log.SetOutput(os.Stderr)
	log.SetPrefix("predict: ")
	os.Exit(run(os.Args[1:], os.Stdout, openPredictor))
}

func run(args []string, stdout io.Writer, open openFunc) int {
	if len(args) != 1 || args[0] == "" {
		return emit(stdout, predictor.Failure(ErrUsage))
	}

	p, err := open()
	if err != nil {
		return emit(stdout, predictor.Failure(err))
	}
	defer p.Close()

	return emit(stdout, p.PredictFile(args[0]))
}

func openPredictor() (*predictor.Predictor, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	return app.Predictor, nil
}

func emit(w io.Writer, res predictor.Result) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Printf("failed to write result: %v", err)
		return 1
	}
	if !res.Success {
		return 1
	}
	return 0
}
