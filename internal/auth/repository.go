package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user and session persistence.
type Repository interface {
	// User operations
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindUserByIdentity(ctx context.Context, provider, providerID string) (*User, error)
	CreateUser(ctx context.Context, user User, passwordHash, confirmationHash string) (User, error)
	LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerID string) error
	PasswordHash(ctx context.Context, userID uuid.UUID) (string, error)
	ConfirmUser(ctx context.Context, confirmationHash string, at time.Time) (*User, error)
	UpdateUserLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// Session operations
	CreateSession(ctx context.Context, session SessionRecord, tokenHash string) error
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*SessionRecord, *User, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
