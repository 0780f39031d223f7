package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chatbot-backend/internal/logger"
	"chatbot-backend/internal/models"
	"chatbot-backend/internal/observability"
)

const (
	// Every turn is attributed to user 1 because there is no session to
	// identify the caller.
	// TODO: take the user id from the caller once login issues a session.
	chatTurnUserID = 1

	historyLimit = 10
	emptyPreview = "No message..."

	msgChatMisconfigured   = "Chatbot service misconfiguration"
	msgChatMessageRequired = "No message provided"
	msgChatInvalidReply    = "Chatbot service error: Invalid AI response"
	msgChatFailed          = "Chatbot service failed"
	msgHistoryFailed       = "Failed to fetch chat history"
	msgDeleteFailed        = "Failed to delete messages"
)

// ChatStore is the chat history store used by ChatService.
type ChatStore interface {
	Create(ctx context.Context, turn *models.ChatTurn) error
	ListRecent(ctx context.Context, limit int) ([]*models.ChatTurn, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// InferenceGateway generates a reply for a single input string.
type InferenceGateway interface {
	Configured() bool
	Generate(ctx context.Context, input string) (string, error)
}

type ChatService struct {
	store   ChatStore
	gateway InferenceGateway
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewChatService(store ChatStore, gateway InferenceGateway, log *zap.Logger, metrics *observability.Metrics) *ChatService {
	return &ChatService{
		store:   store,
		gateway: gateway,
		log:     log,
		metrics: metrics,
	}
}

// Chat forwards message to the gateway and stores the exchange. A failed
// insert fails the whole call even though a reply was produced.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	if !s.gateway.Configured() {
		return "", &ConfigurationError{Message: msgChatMisconfigured, Setting: "HF_API_KEY"}
	}
	if req.Message == "" {
		return "", &ValidationError{Message: msgChatMessageRequired}
	}

	log := logger.For(ctx, s.log)
	log.Debug("chat message received", zap.String("message", req.Message))

	reply, err := s.gateway.Generate(ctx, req.Message)
	if err != nil {
		if errors.Is(err, ErrInvalidResponse) {
			return "", &GatewayError{Message: msgChatInvalidReply, Err: err}
		}
		return "", &GatewayError{Message: msgChatFailed, Err: err}
	}
	log.Debug("chat reply generated", zap.String("reply", reply))

	message := req.Message
	turn := &models.ChatTurn{
		UserID:      chatTurnUserID,
		UserMessage: &message,
		BotReply:    &reply,
	}
	if err := s.store.Create(ctx, turn); err != nil {
		return "", &PersistenceError{Message: msgChatFailed, Err: err}
	}
	if s.metrics != nil {
		s.metrics.ChatTurnsStored.Inc()
	}

	return reply, nil
}

// History returns previews of the most recent turns, newest first.
func (s *ChatService) History(ctx context.Context) ([]models.HistoryItem, error) {
	turns, err := s.store.ListRecent(ctx, historyLimit)
	if err != nil {
		return nil, &PersistenceError{Message: msgHistoryFailed, Err: err}
	}

	items := make([]models.HistoryItem, 0, len(turns))
	for _, t := range turns {
		items = append(items, models.HistoryItem{Preview: Preview(t.UserMessage)})
	}
	return items, nil
}

// DeleteHistory removes every stored turn. It is not isolated from a
// concurrent Chat insert; whichever reaches the store last wins.
func (s *ChatService) DeleteHistory(ctx context.Context) error {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return &PersistenceError{Message: msgDeleteFailed, Err: err}
	}
	logger.For(ctx, s.log).Info("chat history deleted", zap.Int64("rows", n))
	return nil
}

// Preview keeps the first two whitespace separated words of msg followed by
// "...".
func Preview(msg *string) string {
	if msg == nil || *msg == "" {
		return emptyPreview
	}
	words := strings.Fields(*msg)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ") + "..."
}
