package repository

import (
	"context"

	"chatbot-backend/internal/models"
)

type UserRepo struct {
	pool DBTX
}

func NewUserRepo(pool DBTX) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts the user and fills in the generated ID. Uniqueness of
// username and email is enforced by the table constraints.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	return r.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash).Scan(&user.ID)
}

// GetByIdentifier finds a user whose username or email equals identifier
// exactly. It returns pgx.ErrNoRows when nothing matches.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, email, password
		FROM users WHERE username = $1 OR email = $1
		ORDER BY id LIMIT 1`

	err := r.pool.QueryRow(ctx, query, identifier).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
