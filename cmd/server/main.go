package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"chatbot-backend/internal/config"
	"chatbot-backend/internal/database"
	"chatbot-backend/internal/handlers"
	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/observability"
	"chatbot-backend/internal/repository"
	"chatbot-backend/internal/router"
	"chatbot-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()
	log.Info("starting chatbot backend", zap.String("env", cfg.Env))

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()
	log.Info("postgres connected")

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	// ──── Step 4: Metrics ────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics("chatbot", reg)

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	chatRepo := repository.NewChatRepo(pool)

	// ──── Initialize Services ────
	inference := services.NewInferenceClient(cfg.InferenceURL, cfg.InferenceAPIKey, metrics)
	if !inference.Configured() {
		// Not fatal: only /api/chat depends on it and it reports the
		// misconfiguration per request.
		log.Warn("HF_API_KEY is not set, chat endpoint will return errors")
	}
	authService := services.NewAuthService(userRepo)
	chatService := services.NewChatService(chatRepo, inference, log, metrics)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, log)
	chatHandler := handlers.NewChatHandler(chatService, log)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		authHandler,
		chatHandler,
		observability.MetricsHandler(reg),
		metrics,
		log,
		cfg.AllowedOrigins,
	)

	// No WriteTimeout: a chat request lasts as long as the inference call.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server running", zap.String("url", fmt.Sprintf("http://localhost:%s", cfg.Port)))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
	<-done
}
