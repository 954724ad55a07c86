package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, email_confirmed_at, created_at, last_sign_in_at`

// FindUserByEmail looks up a user by their email address, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM auth_users WHERE lower(email) = lower($1)`
	return r.getUser(ctx, query, email)
}

// FindUserByID looks up a user by primary key.
func (r *PostgresRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM auth_users WHERE id = $1`
	return r.getUser(ctx, query, id)
}

// FindUserByIdentity looks up a user by an external identity such as a Google subject.
func (r *PostgresRepository) FindUserByIdentity(ctx context.Context, provider, providerID string) (*User, error) {
	const query = `
		SELECT u.id, u.email, u.email_confirmed_at, u.created_at, u.last_sign_in_at
		FROM auth_identities i
		JOIN auth_users u ON u.id = i.user_id
		WHERE i.provider = $1 AND i.provider_id = $2
	`
	return r.getUser(ctx, query, provider, providerID)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toUser(), nil
}

// CreateUser inserts a new user with its password and pending confirmation hash.
func (r *PostgresRepository) CreateUser(ctx context.Context, user User, passwordHash, confirmationHash string) (User, error) {
	const query = `
		INSERT INTO auth_users (id, email, password_hash, email_confirmed_at, confirmation_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullString(passwordHash),
		user.EmailConfirmedAt,
		nullString(confirmationHash),
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	return user, nil
}

// LinkIdentity associates an external identity with a user.
func (r *PostgresRepository) LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerID string) error {
	const query = `
		INSERT INTO auth_identities (provider, provider_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, provider, providerID, userID, time.Now().UTC())
	return err
}

// PasswordHash returns the stored bcrypt hash, or "" when the user has none.
func (r *PostgresRepository) PasswordHash(ctx context.Context, userID uuid.UUID) (string, error) {
	var hash sql.NullString
	err := r.db.GetContext(ctx, &hash, `SELECT password_hash FROM auth_users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return hash.String, nil
}

// ConfirmUser marks the user owning the confirmation hash as confirmed.
func (r *PostgresRepository) ConfirmUser(ctx context.Context, confirmationHash string, at time.Time) (*User, error) {
	query := `
		UPDATE auth_users
		SET email_confirmed_at = $2, confirmation_token_hash = NULL, updated_at = $2
		WHERE confirmation_token_hash = $1
		RETURNING ` + userColumns
	return r.getUser(ctx, query, confirmationHash, at)
}

// UpdateUserLogin records the last sign-in time.
func (r *PostgresRepository) UpdateUserLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE auth_users
		SET last_sign_in_at = $2, updated_at = $2
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

// CreateSession inserts a new session into the database.
func (r *PostgresRepository) CreateSession(ctx context.Context, session SessionRecord, tokenHash string) error {
	const query = `
		INSERT INTO auth_sessions (id, user_id, token_hash, expires_at, created_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		tokenHash,
		session.ExpiresAt,
		session.CreatedAt,
		session.UserAgent,
		session.IPAddress,
	)
	return err
}

// FindSessionByTokenHash looks up a session and its associated user by token hash.
func (r *PostgresRepository) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*SessionRecord, *User, error) {
	const query = `
		SELECT
			s.id, s.user_id, s.expires_at, s.created_at, s.user_agent, s.ip_address,
			u.email, u.email_confirmed_at, u.created_at AS user_created_at, u.last_sign_in_at
		FROM auth_sessions s
		JOIN auth_users u ON s.user_id = u.id
		WHERE s.token_hash = $1
	`

	var row sessionUserRow
	if err := r.db.GetContext(ctx, &row, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return row.toSession(), row.toUser(), nil
}

// DeleteSession removes a session from the database.
func (r *PostgresRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM auth_sessions WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteExpiredSessions removes all sessions that expired before now.
func (r *PostgresRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM auth_sessions WHERE expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

type userRow struct {
	ID               uuid.UUID    `db:"id"`
	Email            string       `db:"email"`
	EmailConfirmedAt sql.NullTime `db:"email_confirmed_at"`
	CreatedAt        time.Time    `db:"created_at"`
	LastSignInAt     sql.NullTime `db:"last_sign_in_at"`
}

func (r *userRow) toUser() *User {
	return &User{
		ID:               r.ID,
		Email:            r.Email,
		EmailConfirmedAt: timePtr(r.EmailConfirmedAt),
		CreatedAt:        r.CreatedAt,
		LastSignInAt:     timePtr(r.LastSignInAt),
	}
}

// sessionUserRow is a database row for the session + user join query.
type sessionUserRow struct {
	// Session fields
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	UserAgent string    `db:"user_agent"`
	IPAddress string    `db:"ip_address"`

	// User fields
	Email            string       `db:"email"`
	EmailConfirmedAt sql.NullTime `db:"email_confirmed_at"`
	UserCreatedAt    time.Time    `db:"user_created_at"`
	LastSignInAt     sql.NullTime `db:"last_sign_in_at"`
}

func (r *sessionUserRow) toSession() *SessionRecord {
	return &SessionRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		UserAgent: r.UserAgent,
		IPAddress: r.IPAddress,
	}
}

func (r *sessionUserRow) toUser() *User {
	return &User{
		ID:               r.UserID,
		Email:            r.Email,
		EmailConfirmedAt: timePtr(r.EmailConfirmedAt),
		CreatedAt:        r.UserCreatedAt,
		LastSignInAt:     timePtr(r.LastSignInAt),
	}
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
