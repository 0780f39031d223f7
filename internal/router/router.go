package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chatbot-backend/internal/handlers"
	"chatbot-backend/internal/middleware"
	"chatbot-backend/internal/observability"
)

func New(
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	metricsHandler http.Handler,
	metrics *observability.Metrics,
	log *zap.Logger,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log, metrics))
	r.Use(middleware.Recover(log))
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// ──── Chat Routes ────
		r.Post("/chat", chatHandler.Chat)
		r.Get("/chathistory", chatHandler.History)
		r.Delete("/chat/delete", chatHandler.DeleteHistory)
	})

	return r
}
