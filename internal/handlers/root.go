package handlers

import (
	"net/http"

	"chatbot-backend/internal/models"
)

const banner = "🚀 Chatbot API is running..."

func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(banner))
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
