package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chatbot-backend/internal/models"
)

type stubChatStore struct {
	turns     []*models.ChatTurn
	createErr error
	listErr   error
	deleteErr error
	lastLimit int
}

func (s *stubChatStore) Create(ctx context.Context, turn *models.ChatTurn) error {
	if s.createErr != nil {
		return s.createErr
	}
	turn.ID = int64(len(s.turns) + 1)
	turn.CreatedAt = time.Unix(0, 0).Add(time.Duration(turn.ID) * time.Second)
	s.turns = append(s.turns, turn)
	return nil
}

func (s *stubChatStore) ListRecent(ctx context.Context, limit int) ([]*models.ChatTurn, error) {
	s.lastLimit = limit
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
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	n := int64(len(s.turns))
	s.turns = nil
	return n, nil
}

type stubGateway struct {
	configured bool
	reply      string
	err        error
	inputs     []string
}

func (g *stubGateway) Configured() bool { return g.configured }

func (g *stubGateway) Generate(ctx context.Context, input string) (string, error) {
	g.inputs = append(g.inputs, input)
	return g.reply, g.err
}

func newTestChatService(store ChatStore, gw InferenceGateway) *ChatService {
	return NewChatService(store, gw, zap.NewNop(), nil)
}

func TestChatService_Chat_PersistsTurn(t *testing.T) {
	store := &stubChatStore{}
	gw := &stubGateway{configured: true, reply: "Hi!"}

	reply, err := newTestChatService(store, gw).Chat(context.Background(), models.ChatRequest{Message: "Hello there friend"})
	require.NoError(t, err)

	assert.Equal(t, "Hi!", reply)
	assert.Equal(t, []string{"Hello there friend"}, gw.inputs)
	require.Len(t, store.turns, 1)
	assert.Equal(t, int64(chatTurnUserID), store.turns[0].UserID)
	assert.Equal(t, "Hello there friend", *store.turns[0].UserMessage)
	assert.Equal(t, "Hi!", *store.turns[0].BotReply)
}

func TestChatService_Chat_NotConfigured(t *testing.T) {
	store := &stubChatStore{}
	gw := &stubGateway{configured: false}

	// The credential check runs before input validation.
	_, err := newTestChatService(store, gw).Chat(context.Background(), models.ChatRequest{})

	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, msgChatMisconfigured, cerr.Message)
	assert.Empty(t, gw.inputs)
}

func TestChatService_Chat_MissingMessage(t *testing.T) {
	gw := &stubGateway{configured: true}

	_, err := newTestChatService(&stubChatStore{}, gw).Chat(context.Background(), models.ChatRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgChatMessageRequired, verr.Message)
	assert.Empty(t, gw.inputs)
}

func TestChatService_Chat_GatewayFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"invalid shape", fmt.Errorf("%w: []", ErrInvalidResponse), msgChatInvalidReply},
		{"transport", errors.New("connection reset"), msgChatFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubChatStore{}
			gw := &stubGateway{configured: true, err: tc.err}

			_, err := newTestChatService(store, gw).Chat(context.Background(), models.ChatRequest{Message: "hi"})

			var gerr *GatewayError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tc.message, gerr.Message)
			assert.Empty(t, store.turns)
		})
	}
}

func TestChatService_Chat_PersistenceFailureFailsRequest(t *testing.T) {
	store := &stubChatStore{createErr: errors.New("insert failed")}
	gw := &stubGateway{configured: true, reply: "Hi!"}

	reply, err := newTestChatService(store, gw).Chat(context.Background(), models.ChatRequest{Message: "hi"})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, msgChatFailed, perr.Message)
	assert.Empty(t, reply)
}

func TestChatService_History_LimitAndOrder(t *testing.T) {
	store := &stubChatStore{}
	svc := newTestChatService(store, &stubGateway{configured: true, reply: "ok"})

	for i := 0; i < 12; i++ {
		_, err := svc.Chat(context.Background(), models.ChatRequest{Message: fmt.Sprintf("message %d extra", i)})
		require.NoError(t, err)
	}

	items, err := svc.History(context.Background())
	require.NoError(t, err)

	assert.Equal(t, historyLimit, store.lastLimit)
	require.Len(t, items, historyLimit)
	assert.Equal(t, "message 11...", items[0].Preview)
	assert.Equal(t, "message 2...", items[9].Preview)
}

func TestChatService_History_EmptyIsNotNil(t *testing.T) {
	items, err := newTestChatService(&stubChatStore{}, &stubGateway{}).History(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, items)
	assert.Len(t, items, 0)
}

func TestChatService_History_StoreFailure(t *testing.T) {
	store := &stubChatStore{listErr: errors.New("timeout")}

	_, err := newTestChatService(store, &stubGateway{}).History(context.Background())

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, msgHistoryFailed, perr.Message)
}

func TestChatService_DeleteHistory(t *testing.T) {
	store := &stubChatStore{}
	svc := newTestChatService(store, &stubGateway{configured: true, reply: "ok"})

	_, err := svc.Chat(context.Background(), models.ChatRequest{Message: "hello"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHistory(context.Background()))

	items, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestChatService_DeleteHistory_StoreFailure(t *testing.T) {
	store := &stubChatStore{deleteErr: errors.New("locked")}

	err := newTestChatService(store, &stubGateway{}).DeleteHistory(context.Background())

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, msgDeleteFailed, perr.Message)
}

func TestPreview(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name     string
		msg      *string
		expected string
	}{
		{"four words", str("one two three four"), "one two..."},
		{"two words", str("hello world"), "hello world..."},
		{"single word", str("hello"), "hello..."},
		{"collapses whitespace", str("  one\t two   three"), "one two..."},
		{"empty", str(""), emptyPreview},
		{"absent", nil, emptyPreview},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Preview(tc.msg))
		})
	}
}
