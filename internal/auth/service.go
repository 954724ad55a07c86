package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const googleProvider = "google"

// Options tunes the behaviour of Service.
type Options struct {
	SessionTTL  time.Duration
	AutoConfirm bool
	// ConfirmURL is the absolute URL of the confirmation endpoint; the token is appended as ?token=.
	ConfirmURL string
	Mailer     Mailer
	Logger     *slog.Logger
}

// Service is the self-hosted authentication backend: it owns users, passwords and issued sessions.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
	opts   Options
	now    func() time.Time
}

// NewService creates a new auth Service.
func NewService(repo Repository, tokens *TokenIssuer, opts Options) *Service {
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Mailer == nil {
		opts.Mailer = LogMailer{Logger: opts.Logger}
	}
	return &Service{
		repo:   repo,
		tokens: tokens,
		opts:   opts,
		now:    time.Now,
	}
}

// SignUp registers an e-mail/password account. It never signs the user in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return nil, validationErr("Unable to validate email address: invalid format")
	}
	if len(password) < MinPasswordLength {
		return nil, validationErr(fmt.Sprintf("Password should be at least %d characters", MinPasswordLength))
	}

	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, providerErr("find user", err)
	}
	if existing != nil {
		return nil, validationErr("User already registered")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, providerErr("hash password", err)
	}

	now := s.now().UTC()
	user := User{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: now,
	}

	var confirmToken, confirmHash string
	if s.opts.AutoConfirm {
		user.EmailConfirmedAt = &now
	} else {
		if confirmToken, err = randomToken(); err != nil {
			return nil, providerErr("generate confirmation token", err)
		}
		confirmHash = hashToken(confirmToken)
	}

	created, err := s.repo.CreateUser(ctx, user, hash, confirmHash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, validationErr("User already registered")
		}
		return nil, providerErr("create user", err)
	}

	if confirmToken != "" {
		link := s.opts.ConfirmURL + "?token=" + url.QueryEscape(confirmToken)
		if err := s.opts.Mailer.SendConfirmation(ctx, created.Email, link); err != nil {
			return nil, providerErr("send confirmation", err)
		}
	}

	s.opts.Logger.Info("user registered", "user_id", created.ID, "confirmed", created.Confirmed())
	return &created, nil
}

// SignInWithPassword verifies credentials and issues a new session.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, providerErr("find user", err)
	}
	if user == nil {
		return nil, authenticationErr("Invalid login credentials")
	}

	hash, err := s.repo.PasswordHash(ctx, user.ID)
	if err != nil {
		return nil, providerErr("load password", err)
	}
	if hash == "" || VerifyPassword(hash, password) != nil {
		return nil, authenticationErr("Invalid login credentials")
	}
	if !user.Confirmed() {
		return nil, authenticationErr("Email not confirmed")
	}

	return s.issueSession(ctx, *user)
}

// SignInWithGoogle finds or creates the user behind a verified Google identity and issues a session.
func (s *Service) SignInWithGoogle(ctx context.Context, claims *GoogleClaims) (*Session, error) {
	if claims == nil || claims.Sub == "" {
		return nil, authenticationErr("Missing Google identity")
	}
	if !claims.EmailVerified {
		return nil, authenticationErr("Google account email is not verified")
	}

	user, err := s.repo.FindUserByIdentity(ctx, googleProvider, claims.Sub)
	if err != nil {
		return nil, providerErr("find identity", err)
	}

	if user == nil {
		email := NormalizeEmail(claims.Email)
		if user, err = s.repo.FindUserByEmail(ctx, email); err != nil {
			return nil, providerErr("find user", err)
		}
		if user == nil {
			now := s.now().UTC()
			created, err := s.repo.CreateUser(ctx, User{
				ID:               uuid.New(),
				Email:            email,
				EmailConfirmedAt: &now,
				CreatedAt:        now,
			}, "", "")
			if err != nil {
				return nil, providerErr("create user", err)
			}
			user = &created
		} else if !user.Confirmed() {
			return nil, authenticationErr("Email not confirmed")
		}

		if err := s.repo.LinkIdentity(ctx, user.ID, googleProvider, claims.Sub); err != nil {
			return nil, providerErr("link identity", err)
		}
	}

	return s.issueSession(ctx, *user)
}

func (s *Service) issueSession(ctx context.Context, user User) (*Session, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.opts.SessionTTL)
	sessionID := uuid.New()

	token, err := s.tokens.Issue(user, sessionID, now, expiresAt)
	if err != nil {
		return nil, providerErr("issue token", err)
	}

	meta := requestMetaFrom(ctx)
	record := SessionRecord{
		ID:        sessionID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UserAgent: truncateString(meta.UserAgent, 512),
		IPAddress: truncateString(meta.IPAddress, 45),
	}
	if err := s.repo.CreateSession(ctx, record, hashToken(token)); err != nil {
		return nil, providerErr("create session", err)
	}
	if err := s.repo.UpdateUserLogin(ctx, user.ID, now); err != nil {
		return nil, providerErr("update user login", err)
	}
	user.LastSignInAt = &now

	return &Session{
		ID:          sessionID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// ValidateSession resolves an access token to its live session. Unknown, expired or
// forged tokens yield (nil, nil).
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}

	record, user, err := s.repo.FindSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, providerErr("find session", err)
	}
	if record == nil || user == nil || record.ID.String() != claims.SessionID {
		return nil, nil
	}

	if s.now().After(record.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, record.ID)
		return nil, nil
	}

	return &Session{
		ID:          record.ID,
		AccessToken: token,
		ExpiresAt:   record.ExpiresAt,
		User:        *user,
	}, nil
}

// RevokeSession removes the session associated with the given token.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	record, _, err := s.repo.FindSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return providerErr("find session", err)
	}
	if record == nil {
		return nil
	}

	if err := s.repo.DeleteSession(ctx, record.ID); err != nil {
		return providerErr("delete session", err)
	}
	return nil
}

// ConfirmEmail completes the e-mail confirmation for the token sent at sign-up.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, validationErr("Confirmation link is invalid or has expired")
	}

	user, err := s.repo.ConfirmUser(ctx, hashToken(token), s.now().UTC())
	if err != nil {
		return nil, providerErr("confirm user", err)
	}
	if user == nil {
		return nil, validationErr("Confirmation link is invalid or has expired")
	}
	return user, nil
}

// CleanupExpiredSessions removes all expired sessions from the database.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now())
}

// RequestMeta describes the client that triggered a sign-in.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

type requestMetaKey struct{}

// WithRequestMeta attaches client metadata recorded on issued sessions.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken returns the SHA-256 hash of the token as a hex string.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// truncateString truncates a string to the given max length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
