package container

import (
	"github.com/Brownie44l1/plant-disease-api/internal/config"
	"github.com/Brownie44l1/plant-disease-api/internal/model"
	"github.com/Brownie44l1/plant-disease-api/internal/predictor"
)

type Container struct {
	Config    *config.Config
	ModelPath string
	Predictor *predictor.Predictor
}

// New loads the model named by cfg. The returned error is always a
// *predictor.ModelLoadError; the process should not continue without a model.
func New(cfg *config.Config) (*Container, error) {
	return newContainer(cfg, nil)
}

func newContainer(cfg *config.Config, load predictor.LoadFunc) (*Container, error) {
	modelPath, err := config.ResolvePath(cfg.ModelPath)
	if err != nil {
		return nil, &predictor.ModelLoadError{Path: cfg.ModelPath, Err: err}
	}

	if load == nil {
		model.SetLibraryPath(cfg.RuntimeLibrary)

		meta := model.DefaultMetadata()
		if cfg.MetadataPath != "" {
			metaPath, err := config.ResolvePath(cfg.MetadataPath)
			if err == nil {
				meta, err = model.LoadMetadata(metaPath)
			}
			if err != nil {
				return nil, &predictor.ModelLoadError{Path: modelPath, Err: err}
			}
		}
		load = onnxLoader(meta)
	}

	p, err := predictor.Open(modelPath, load)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:    cfg,
		ModelPath: modelPath,
		Predictor: p,
	}, nil
}

func (c *Container) Close() {
	c.Predictor.Close()
	model.Shutdown()
}

func onnxLoader(meta model.Metadata) predictor.LoadFunc {
	return func(path string) (predictor.Model, error) {
		session, err := model.NewSession(path, meta)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}
