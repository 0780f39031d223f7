package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chatbot-backend/internal/models"
	"chatbot-backend/internal/services"
)

type stubUserStore struct {
	mu        sync.Mutex
	users     []*models.User
	createErr error
	lookupErr error
}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = int64(len(s.users) + 1)
	s.users = append(s.users, user)
	return nil
}

func (s *stubUserStore) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubChatStore struct {
	mu        sync.Mutex
	turns     []*models.ChatTurn
	createErr error
	listErr   error
	deleteErr error
}

func (s *stubChatStore) Create(ctx context.Context, turn *models.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	turn.ID = int64(len(s.turns) + 1)
	turn.CreatedAt = time.Unix(1700000000, 0).Add(time.Duration(turn.ID) * time.Second)
	s.turns = append(s.turns, turn)
	return nil
}

func (s *stubChatStore) ListRecent(ctx context.Context, limit int) ([]*models.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*models.ChatTurn
	for i := len(s.turns) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.turns[i])
	}
	return out, nil
}

func (s *stubChatStore) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	n := int64(len(s.turns))
	s.turns = nil
	return n, nil
}

func (s *stubChatStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func newAuthHandler(store services.UserStore) *AuthHandler {
	return NewAuthHandler(services.NewAuthService(store), zap.NewNop())
}

func newChatHandler(store services.ChatStore, gatewayURL, apiKey string) *ChatHandler {
	gw := services.NewInferenceClient(gatewayURL, apiKey, nil)
	return NewChatHandler(services.NewChatService(store, gw, zap.NewNop(), nil), zap.NewNop())
}
