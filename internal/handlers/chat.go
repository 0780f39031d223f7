package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"chatbot-backend/internal/models"
	"chatbot-backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	log         *zap.Logger
}

func NewChatHandler(chatService *services.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	// An unreadable body is treated like a missing message so that the
	// service still runs its credential check first.
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	reply, err := h.chatService.Chat(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	items, err := h.chatService.History(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *ChatHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.DeleteHistory(r.Context()); err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DeleteHistoryResponse{
		Success: true,
		Message: "Messages deleted successfully",
	})
}
