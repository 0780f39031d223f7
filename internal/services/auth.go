package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"chatbot-backend/internal/models"
)

const passwordHashCost = 10

const (
	msgRegisterRequired = "Username, email, and password are required"
	msgRegisterFailed   = "Server error during registration"
	msgLoginRequired    = "Username/Email and password are required"
	msgLoginFailed      = "Server error during login"
	msgInvalidLogin     = "Invalid credentials"
)

// UserStore is the credential store used by AuthService.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register hashes the password and stores a new user. Duplicate usernames or
// emails surface as a PersistenceError from the store constraint.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, &ValidationError{Message: msgRegisterRequired}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ValidationError{
				Message: "Password is too long",
				Fields:  map[string]string{"password": "Password must be at most 72 bytes"},
			}
		}
		return nil, &PersistenceError{Message: msgRegisterFailed, Err: err}
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, &PersistenceError{Message: msgRegisterFailed, Err: err}
	}

	return user, nil
}

// Login returns the same AuthError for an unknown identifier and for a wrong
// password so callers cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if req.Identifier == "" || req.Password == "" {
		return nil, &ValidationError{Message: msgLoginRequired}
	}

	user, err := s.users.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &AuthError{Message: msgInvalidLogin}
		}
		return nil, &PersistenceError{Message: msgLoginFailed, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &AuthError{Message: msgInvalidLogin}
	}

	return user, nil
}
