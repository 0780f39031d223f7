package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/middleware"
	"chatbot-backend/internal/models"
	"chatbot-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Username, email, and password are required", r))
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Username/Email and password are required", r))
		return
	}

	user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		User:    user,
	})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get(middleware.RequestIDHeader),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, message, r)
	resp.Error.Fields = fields
	return resp
}

// handleServiceError is the only place a service error becomes a status
// code. Causes of 5xx responses are logged, never returned.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var (
		validationErr  *services.ValidationError
		authErr        *services.AuthError
		configErr      *services.ConfigurationError
		gatewayErr     *services.GatewayError
		persistenceErr *services.PersistenceError
	)
	l := logger.For(r.Context(), log)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", validationErr.Message, validationErr.Fields, r))
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", authErr.Message, r))
	case errors.As(err, &configErr):
		l.Error("service misconfigured", zap.String("setting", configErr.Setting))
		writeJSON(w, http.StatusInternalServerError, errorResp("CONFIGURATION_ERROR", configErr.Message, r))
	case errors.As(err, &gatewayErr):
		l.Error("inference gateway failed", zap.Error(gatewayErr.Err))
		writeJSON(w, http.StatusInternalServerError, errorResp("GATEWAY_ERROR", gatewayErr.Message, r))
	case errors.As(err, &persistenceErr):
		l.Error("store operation failed", zap.String("path", r.URL.Path), zap.Error(persistenceErr.Err))
		writeJSON(w, http.StatusInternalServerError, errorResp("PERSISTENCE_ERROR", persistenceErr.Message, r))
	default:
		l.Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
