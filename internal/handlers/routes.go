package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Routes registers every endpoint on a fresh mux.
func Routes(h *Handler, cors bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /api/plant-disease/detect", h.Detect)
	mux.HandleFunc("POST /api/plant-disease/detect/upload", h.DetectUpload)
	mux.HandleFunc("GET /api/plant-disease/info/{disease}", h.Info)

	var handler http.Handler = mux
	if cors {
		handler = enableCORS(handler)
	}
	return withRequestID(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID tags each request with an ID, echoed in X-Request-ID and
// used as the log prefix.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		log.Printf("[%s] %s %s (%v)", id, r.Method, r.URL.Path, time.Since(start))
	})
}

func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(ctxKey{}).(string); ok {
		return id
	}
	return "-"
}
