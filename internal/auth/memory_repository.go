package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryUser struct {
	user             User
	passwordHash     string
	confirmationHash string
}

type memorySession struct {
	record    SessionRecord
	tokenHash string
}

// InMemoryRepository keeps users and sessions in process memory for development and tests.
type InMemoryRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*memoryUser
	byEmail    map[string]uuid.UUID
	identities map[string]uuid.UUID
	sessions   map[string]memorySession
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:      make(map[uuid.UUID]*memoryUser),
		byEmail:    make(map[string]uuid.UUID),
		identities: make(map[string]uuid.UUID),
		sessions:   make(map[string]memorySession),
	}
}

func (r *InMemoryRepository) FindUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user := r.users[id].user
	return &user, nil
}

func (r *InMemoryRepository) FindUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user := entry.user
	return &user, nil
}

func (r *InMemoryRepository) FindUserByIdentity(_ context.Context, provider, providerID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.identities[provider+":"+providerID]
	if !ok {
		return nil, nil
	}
	user := r.users[id].user
	return &user, nil
}

func (r *InMemoryRepository) CreateUser(_ context.Context, user User, passwordHash, confirmationHash string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return User{}, ErrEmailTaken
	}
	r.users[user.ID] = &memoryUser{user: user, passwordHash: passwordHash, confirmationHash: confirmationHash}
	r.byEmail[key] = user.ID
	return user, nil
}

func (r *InMemoryRepository) LinkIdentity(_ context.Context, userID uuid.UUID, provider, providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.identities[provider+":"+providerID] = userID
	return nil
}

func (r *InMemoryRepository) PasswordHash(_ context.Context, userID uuid.UUID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.users[userID]
	if !ok {
		return "", nil
	}
	return entry.passwordHash, nil
}

func (r *InMemoryRepository) ConfirmUser(_ context.Context, confirmationHash string, at time.Time) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.users {
		if confirmationHash == "" || entry.confirmationHash != confirmationHash {
			continue
		}
		confirmedAt := at
		entry.user.EmailConfirmedAt = &confirmedAt
		entry.confirmationHash = ""
		user := entry.user
		return &user, nil
	}
	return nil, nil
}

func (r *InMemoryRepository) UpdateUserLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.users[id]; ok {
		signedInAt := at
		entry.user.LastSignInAt = &signedInAt
	}
	return nil
}

func (r *InMemoryRepository) CreateSession(_ context.Context, session SessionRecord, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[tokenHash] = memorySession{record: session, tokenHash: tokenHash}
	return nil
}

func (r *InMemoryRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*SessionRecord, *User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[tokenHash]
	if !ok {
		return nil, nil, nil
	}
	owner, ok := r.users[entry.record.UserID]
	if !ok {
		return nil, nil, nil
	}
	record := entry.record
	user := owner.user
	return &record, &user, nil
}

func (r *InMemoryRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, entry := range r.sessions {
		if entry.record.ID == id {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *InMemoryRepository) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for hash, entry := range r.sessions {
		if entry.record.ExpiresAt.Before(now) {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
