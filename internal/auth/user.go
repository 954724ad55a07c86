package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record the provider associates with a session.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"emailConfirmedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastSignInAt     *time.Time `json:"lastSignInAt,omitempty"`
}

// Confirmed reports whether the user completed e-mail confirmation.
func (u User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// Session is the provider-issued proof of authentication handed to clients.
type Session struct {
	ID          uuid.UUID `json:"id"`
	AccessToken string    `json:"-"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

// SessionRecord is the backend's persisted view of an issued session.
type SessionRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
	UserAgent string
	IPAddress string
}

// Event tags an auth state change notification.
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

// GoogleClaims contains the relevant claims from a Google ID token.
type GoogleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
