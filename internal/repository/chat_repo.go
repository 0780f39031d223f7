package repository

import (
	"context"

	"chatbot-backend/internal/models"
)

type ChatRepo struct {
	pool DBTX
}

func NewChatRepo(pool DBTX) *ChatRepo {
	return &ChatRepo{pool: pool}
}

// Create stores a chat turn. created_at is assigned by the database.
func (r *ChatRepo) Create(ctx context.Context, turn *models.ChatTurn) error {
	query := `
		INSERT INTO chat_history (user_id, user_message, bot_reply, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		turn.UserID, turn.UserMessage, turn.BotReply,
	).Scan(&turn.ID, &turn.CreatedAt)
}

// ListRecent returns at most limit turns, newest first.
func (r *ChatRepo) ListRecent(ctx context.Context, limit int) ([]*models.ChatTurn, error) {
	query := `SELECT id, COALESCE(user_id, 0), user_message, bot_reply, created_at
		FROM chat_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*models.ChatTurn
	for rows.Next() {
		t := &models.ChatTurn{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserMessage, &t.BotReply, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

// DeleteAll removes every chat turn and reports how many rows went.
func (r *ChatRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM chat_history")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
