package models

import "time"

// ChatTurn is one persisted exchange with the inference gateway.
type ChatTurn struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	UserMessage *string   `json:"user_message"`
	BotReply    *string   `json:"bot_reply"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

type HistoryItem struct {
	Preview string `json:"preview"`
}

type DeleteHistoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
