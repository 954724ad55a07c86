// Package session owns the per-browser authentication state: who is signed in,
// whether an auth call is in flight and the last sign-in or sign-up error.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nutrichef/internal/auth"
	"nutrichef/internal/profiles"
)

// ProfileUpdater applies partial profile updates.
type ProfileUpdater interface {
	Update(ctx context.Context, userID uuid.UUID, patch profiles.Patch) (profiles.Profile, error)
}

// State is a snapshot of the store.
type State struct {
	User    *auth.User
	Session *auth.Session
	Loading bool
	Error   string
	// Version increases with every change.
	Version uint64
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Store is the single owner of one browser's auth state.
//
// Loading is derived: it stays true until the first session resolution and
// while any explicit sign-in, sign-up or sign-out call is in flight.
type Store struct {
	provider auth.Provider
	profiles ProfileUpdater
	notifier Notifier
	logger   *slog.Logger

	mu          sync.Mutex
	user        *auth.User
	session     *auth.Session
	errMsg      string
	resolved    bool
	inflight    int
	seq         uint64
	version     uint64
	initialized bool
	closed      bool
	sub         auth.Subscription
	changed     chan struct{}
	watchers    map[int]chan State
	nextWatcher int
	lastUsed    time.Time

	// onPublish observes every state change; set only in tests.
	onPublish func(State)
}

// NewStore creates a store in the loading state. Call Initialize to connect it to the provider.
func NewStore(provider auth.Provider, profiles ProfileUpdater, notifier Notifier, logger *slog.Logger) *Store {
	if notifier == nil {
		notifier = NewFlashQueue()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		provider: provider,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
		changed:  make(chan struct{}),
		watchers: make(map[int]chan State),
		lastUsed: time.Now(),
	}
}

// Initialize subscribes to auth changes and then fetches the current session
// in the background. Later calls are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized || s.closed {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	sub := s.provider.OnAuthStateChange(s.handleAuthChange)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.sub = sub
	issuedAt := s.seq
	s.mu.Unlock()

	go s.loadInitialSession(context.WithoutCancel(ctx), issuedAt)
}

// loadInitialSession applies the fetched session only if no notification
// arrived after the fetch was issued.
func (s *Store) loadInitialSession(ctx context.Context, issuedAt uint64) {
	current, err := s.provider.GetSession(ctx)
	if err != nil {
		s.logger.Warn("initial session fetch failed", "error", err)
		current = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.seq != issuedAt {
		return
	}
	s.setSessionLocked(current)
	s.resolved = true
	s.publishLocked()
}

func (s *Store) handleAuthChange(event auth.Event, current *auth.Session) {
	if event == auth.EventSignedOut {
		current = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.applyAuthChangeLocked(event, current)
}

func (s *Store) applyAuthChangeLocked(event auth.Event, current *auth.Session) {
	s.seq++
	s.setSessionLocked(current)
	s.resolved = true

	// Queue the announcement before publishing so waiters observe both.
	switch event {
	case auth.EventSignedIn:
		s.notifier.Notify(Notification{Title: "Welcome!", Description: "You have successfully signed in."})
	case auth.EventSignedOut:
		s.notifier.Notify(Notification{Title: "Signed out", Description: "You have been signed out."})
	}
	s.publishLocked()
}

// Revalidate asks the provider whether the cached session is still live. A
// session that expired or was revoked is treated as a SIGNED_OUT notification.
// Provider failures keep the cached state.
func (s *Store) Revalidate(ctx context.Context) State {
	s.mu.Lock()
	cached := s.session
	issuedAt := s.seq
	if s.closed || cached == nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state
	}
	s.mu.Unlock()

	current, err := s.provider.GetSession(ctx)
	if err != nil {
		s.logger.Warn("session revalidation failed", "error", err)
		return s.State()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A notification that landed meanwhile is newer than this check.
	if s.closed || s.seq != issuedAt {
		return s.snapshotLocked()
	}
	if current == nil || current.ID != cached.ID {
		s.logger.Info("session no longer valid", "user_id", cached.User.ID, "expired_at", cached.ExpiresAt)
		s.applyAuthChangeLocked(auth.EventSignedOut, nil)
	}
	return s.snapshotLocked()
}

func (s *Store) setSessionLocked(current *auth.Session) {
	if current == nil {
		s.user = nil
		s.session = nil
		return
	}
	user := current.User
	s.user = &user
	s.session = current
}

// SignUp registers a new account. The user stays signed out until they confirm their e-mail.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	s.begin(true)
	err := s.provider.SignUp(ctx, email, password)
	s.end(err, true)

	if err != nil {
		s.Notify(Notification{Title: "Sign up failed", Description: userMessage(err), Destructive: true})
		return err
	}
	s.Notify(Notification{
		Title:       "Account created!",
		Description: "Account created! Please check your email for the confirmation link.",
	})
	return nil
}

// SignIn submits credentials. On success the user is set by the provider's
// SIGNED_IN notification, not by this call.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.begin(true)
	err := s.provider.SignInWithPassword(ctx, email, password)
	s.end(err, true)

	if err != nil {
		s.Notify(Notification{Title: "Sign in failed", Description: userMessage(err), Destructive: true})
		return err
	}
	return nil
}

// SessionAdopter is implemented by providers that can take over a session
// issued by another sign-in flow, such as Google.
type SessionAdopter interface {
	AdoptSession(ctx context.Context, session *auth.Session) error
}

// AdoptSession signs the browser in with a session issued outside the
// password flow. Like SignIn, the user is set by the SIGNED_IN notification.
func (s *Store) AdoptSession(ctx context.Context, issued *auth.Session) error {
	adopter, ok := s.provider.(SessionAdopter)
	if !ok {
		return &auth.ProviderError{Op: "adopt session", Err: errors.New("provider cannot adopt sessions")}
	}

	s.begin(true)
	err := adopter.AdoptSession(ctx, issued)
	s.end(err, true)

	if err != nil {
		s.Notify(Notification{Title: "Sign in failed", Description: userMessage(err), Destructive: true})
		return err
	}
	return nil
}

// SignOut ends the provider session. Local state clears via the SIGNED_OUT notification.
func (s *Store) SignOut(ctx context.Context) error {
	s.begin(false)
	err := s.provider.SignOut(ctx)
	s.end(err, false)

	if err != nil {
		s.Notify(Notification{Title: "Sign out failed", Description: userMessage(err), Destructive: true})
		return err
	}
	return nil
}

// UpdateProfile applies a partial update to the signed-in user's profile.
func (s *Store) UpdateProfile(ctx context.Context, patch profiles.Patch) (profiles.Profile, error) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		s.Notify(Notification{Title: "Error", Description: auth.ErrNotAuthenticated.Error(), Destructive: true})
		return profiles.Profile{}, auth.ErrNotAuthenticated
	}

	profile, err := s.profiles.Update(ctx, user.ID, patch)
	if err != nil {
		s.Notify(Notification{Title: "Error updating profile", Description: userMessage(err), Destructive: true})
		return profiles.Profile{}, err
	}

	s.Notify(Notification{Title: "Profile updated", Description: "Your profile has been successfully updated."})
	return profile, nil
}

func (s *Store) begin(clearError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight++
	if clearError {
		s.errMsg = ""
	}
	s.publishLocked()
}

func (s *Store) end(err error, recordError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if err != nil && recordError {
		s.errMsg = userMessage(err)
	}
	s.publishLocked()
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		User:    s.user,
		Session: s.session,
		Loading: !s.resolved || s.inflight > 0,
		Error:   s.errMsg,
		Version: s.version,
	}
}

func (s *Store) publishLocked() {
	s.version++
	close(s.changed)
	s.changed = make(chan struct{})

	state := s.snapshotLocked()
	if s.onPublish != nil {
		s.onPublish(state)
	}
	for _, ch := range s.watchers {
		// Keep only the latest state for slow watchers.
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// Subscribe returns a channel receiving the latest state after every change.
// The cancel function releases it.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(ch)
			}
		})
	}
}

// Wait blocks until cond holds for the current state or ctx ends.
func (s *Store) Wait(ctx context.Context, cond func(State) bool) (State, error) {
	for {
		s.mu.Lock()
		state := s.snapshotLocked()
		changed := s.changed
		s.mu.Unlock()

		if cond(state) {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-changed:
		}
	}
}

// Settled waits up to timeout for the store to stop loading.
func (s *Store) Settled(ctx context.Context, timeout time.Duration) State {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	state, _ := s.Wait(ctx, func(st State) bool { return !st.Loading })
	return state
}

// Notify queues a transient notification for this browser.
func (s *Store) Notify(n Notification) {
	s.notifier.Notify(n)
}

// Notifications drains the queued notifications.
func (s *Store) Notifications() []Notification {
	return s.notifier.Drain()
}

// Touch records use of the store for idle eviction.
func (s *Store) Touch(at time.Time) {
	s.mu.Lock()
	s.lastUsed = at
	s.mu.Unlock()
}

func (s *Store) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close unsubscribes from the provider and releases watchers.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// userMessage turns an error into text fit for the page.
func userMessage(err error) string {
	var validationErr *auth.ValidationError
	var authErr *auth.AuthenticationError
	var profileErr *profiles.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &profileErr):
		return profileErr.Message
	case errors.Is(err, auth.ErrNotAuthenticated):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
