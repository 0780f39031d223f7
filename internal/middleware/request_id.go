package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"chatbot-backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or assigns a new one, and exposes
// it on the request header, the response header and the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
