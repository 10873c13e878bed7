package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultModelPath      = "models/plant_disease_model.onnx"
	DefaultPort           = "8080"
	DefaultMaxUploadBytes = 10 << 20
)

type Config struct {
	ModelPath      string
	MetadataPath   string
	RuntimeLibrary string

	Port           string
	MaxUploadBytes int64
	CORSEnabled    bool
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ModelPath:      getEnv("PLANT_MODEL_PATH", DefaultModelPath),
		MetadataPath:   getEnv("PLANT_METADATA_PATH", ""),
		RuntimeLibrary: getEnv("ONNXRUNTIME_LIB", ""),
		Port:           getEnv("PORT", DefaultPort),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		CORSEnabled:    getEnvBool("CORS_ENABLED", true),
	}

	return cfg, nil
}

// ResolvePath makes a relative path absolute against the project root. When
// run from cmd/<name> the root is two levels up.
func ResolvePath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if filepath.Base(filepath.Dir(wd)) == "cmd" {
		wd = filepath.Join(wd, "../..")
	}
	return filepath.Join(wd, path), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
