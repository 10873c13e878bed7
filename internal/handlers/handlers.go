package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Brownie44l1/plant-disease-api/internal/disease"
	"github.com/Brownie44l1/plant-disease-api/internal/predictor"
)

type Handler struct {
	predictor      *predictor.Predictor
	maxUploadBytes int64
}

func NewHandler(p *predictor.Predictor, maxUploadBytes int64) *Handler {
	return &Handler{
		predictor:      p,
		maxUploadBytes: maxUploadBytes,
	}
}

type DetectRequest struct {
	Image string `json:"image"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	code, status := http.StatusOK, "ok"
	if h.predictor.State() != predictor.StateReady {
		code, status = http.StatusServiceUnavailable, "unavailable"
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"model":     h.predictor.State().String(),
	})
}

// Detect classifies a base64 image posted as JSON.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	if h.rejectLarge(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			h.writeTooLarge(w)
			return
		}
		writeJSON(w, http.StatusBadRequest, predictor.Failure(errors.New("Invalid JSON")))
		return
	}
	if req.Image == "" {
		writeJSON(w, http.StatusBadRequest, predictor.Failure(errors.New("Image is required")))
		return
	}

	log.Printf("[%s] Detecting plant disease from image (%d base64 bytes)", requestID(r), len(req.Image))
	h.respond(w, r, h.predictor.PredictBase64(req.Image))
}

// DetectUpload classifies an image sent as the multipart field "image".
func (h *Handler) DetectUpload(w http.ResponseWriter, r *http.Request) {
	if h.rejectLarge(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if isTooLarge(err) {
			h.writeTooLarge(w)
			return
		}
		writeJSON(w, http.StatusBadRequest, predictor.Failure(errors.New("Failed to parse form")))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, predictor.Failure(errors.New("No image file provided. Use 'image' as the form field name")))
		return
	}
	defer file.Close()

	log.Printf("[%s] Received file: %s, size: %d bytes", requestID(r), header.Filename, header.Size)

	img, err := predictor.Decode(file)
	if err != nil {
		h.respond(w, r, predictor.Failure(err))
		return
	}
	h.respond(w, r, h.predictor.Predict(img))
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	info := disease.Parse(r.PathValue("disease"))
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		disease.Info
	}{Success: true, Info: info})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, res predictor.Result) {
	if res.Success {
		log.Printf("[%s] Prediction: %s (%.2f%%)", requestID(r), res.Prediction, res.Confidence*100)
	} else {
		log.Printf("[%s] Prediction failed: %s", requestID(r), res.Error)
	}
	writeJSON(w, statusFor(res), res)
}

// rejectLarge answers 413 when the declared length is already over the cap.
func (h *Handler) rejectLarge(w http.ResponseWriter, r *http.Request) bool {
	if r.ContentLength > h.maxUploadBytes {
		h.writeTooLarge(w)
		return true
	}
	return false
}

func (h *Handler) writeTooLarge(w http.ResponseWriter) {
	writeJSON(w, http.StatusRequestEntityTooLarge,
		predictor.Failure(fmt.Errorf("Request body too large (max %d bytes)", h.maxUploadBytes)))
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

func statusFor(res predictor.Result) int {
	if res.Success {
		return http.StatusOK
	}

	var invalid *predictor.InvalidImageError
	var loadErr *predictor.ModelLoadError
	switch {
	case errors.As(res.Err, &invalid):
		return http.StatusBadRequest
	case errors.As(res.Err, &loadErr), errors.Is(res.Err, predictor.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
