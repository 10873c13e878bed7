package main

import (
	"log"
	"net/http"
	"time"

	"github.com/Brownie44l1/plant-disease-api/internal/config"
	"github.com/Brownie44l1/plant-disease-api/internal/container"
	"github.com/Brownie44l1/plant-disease-api/internal/disease"
	"github.com/Brownie44l1/plant-disease-api/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loading model from: %s", cfg.ModelPath)

	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize predictor: %v", err)
	}
	defer app.Close()

	handler := handlers.NewHandler(app.Predictor, cfg.MaxUploadBytes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.Routes(handler, cfg.CORSEnabled),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Model loaded: %s", app.ModelPath)
	log.Printf("Classes: %d", disease.Count())
	log.Println("Endpoints:")
	log.Println("  GET  /health                            - Health check")
	log.Println("  POST /api/plant-disease/detect          - Base64 image in JSON")
	log.Println("  POST /api/plant-disease/detect/upload   - Multipart image upload")
	log.Println("  GET  /api/plant-disease/info/{disease}  - Disease details")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
