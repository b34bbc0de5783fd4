package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"vibeboxing/internal/logging"
	"vibeboxing/internal/model"
)

// Status is the client's view of whether someone is signed in.
type Status int

const (
	StatusUnknown Status = iota
	StatusChecking
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is a snapshot of the auth state. User and Token are set only while
// authenticated.
type State struct {
	Status Status
	User   *model.User
	Token  string
	// Verified is false while the identity comes only from the credential
	// cache and the server has not confirmed it yet.
	Verified bool
}

// UserID returns the signed-in user's id, or 0.
func (s State) UserID() uint {
	if s.Status != StatusAuthenticated || s.User == nil {
		return 0
	}
	return s.User.ID
}

// AuthStore owns the client's auth state. Every lifecycle operation (init,
// login, register, logout, account deletion) bumps a generation counter and
// results of superseded generations are dropped, so a slow verification cannot
// resurrect a signed-out user or undo a newer login.
type AuthStore struct {
	api    *API
	creds  CredentialStore
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	gen     uint64
	version uint64

	notifyMu  sync.Mutex
	delivered uint64
	listeners map[int]func(State)
	nextID    int
}

// NewAuthStore creates a store in StatusUnknown. Call Init to resolve it.
func NewAuthStore(api *API, creds CredentialStore, logger *slog.Logger) *AuthStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthStore{
		api:       api,
		creds:     creds,
		logger:    logger,
		listeners: make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (s *AuthStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every state change and returns its cancel func.
// Listeners run on the goroutine that caused the change, in change order, and
// hold up that change while they run: they must return quickly and must not
// call back into the store.
func (s *AuthStore) Subscribe(fn func(State)) func() {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.listeners, id)
		s.notifyMu.Unlock()
	}
}

// begin starts a lifecycle operation and returns its generation.
func (s *AuthStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// setLocked records a new state. Callers hold mu and must publish the
// returned version after unlocking.
func (s *AuthStore) setLocked(st State) (State, uint64) {
	s.state = st
	s.version++
	if st.Status == StatusAuthenticated {
		s.api.SetToken(st.Token)
	} else {
		s.api.SetToken("")
	}
	return st, s.version
}

func (s *AuthStore) publish(st State, version uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	// A newer state was already delivered.
	if version <= s.delivered {
		return
	}
	s.delivered = version
	for _, fn := range s.listeners {
		fn(st)
	}
}

// applyAt sets st and writes it to the credential cache if gen is still
// current, and reports whether it did. A non-zero version also requires the
// state to be untouched since then. The cache is written under the same lock,
// so it always ends up holding the newest state.
func (s *AuthStore) applyAt(gen, version uint64, st State) bool {
	s.mu.Lock()
	if gen != s.gen || (version != 0 && version != s.version) {
		s.mu.Unlock()
		return false
	}
	st, v := s.setLocked(st)
	s.persist(st)
	s.mu.Unlock()
	s.publish(st, v)
	return true
}

// persist mirrors st into the credential cache. Callers hold mu.
func (s *AuthStore) persist(st State) {
	var err error
	if st.Status == StatusAuthenticated {
		err = s.creds.Save(&Credentials{Token: st.Token, User: st.User})
	} else {
		err = s.creds.Clear()
	}
	if err != nil {
		s.logger.Warn("credential cache not updated", "error", err)
	}
}

// signedIn moves to authenticated with payload and persists it.
func (s *AuthStore) signedIn(gen, version uint64, p *AuthPayload, fallbackToken string) error {
	token := p.Token
	if token == "" {
		token = fallbackToken
	}
	st := State{Status: StatusAuthenticated, User: p.User, Token: token, Verified: true}
	if !s.applyAt(gen, version, st) {
		return ErrSuperseded
	}
	return nil
}

// signedOut moves to anonymous and clears the cache when gen is current.
func (s *AuthStore) signedOut(gen, version uint64) bool {
	return s.applyAt(gen, version, State{Status: StatusAnonymous})
}

// dropRejected signs out when the server rejected token and the store still
// holds it unconfirmed, whatever operation started since.
func (s *AuthStore) dropRejected(token string) {
	s.mu.Lock()
	cur := s.state
	if token == "" || cur.Status != StatusAuthenticated || cur.Verified || cur.Token != token {
		s.mu.Unlock()
		return
	}
	st, v := s.setLocked(State{Status: StatusAnonymous})
	s.persist(st)
	s.mu.Unlock()
	s.publish(st, v)
}

// Init resolves the initial state. Cached credentials make the store
// authenticated at once; the server is always asked to confirm them (or the
// session cookie) and the cache is cleared when it does not.
func (s *AuthStore) Init(ctx context.Context) error {
	cached, err := s.creds.Load()
	if err != nil {
		s.logger.Warn("ignoring unreadable credential cache", "error", err)
		cached = nil
	}

	optimistic := State{Status: StatusChecking}
	if cached != nil && cached.User != nil && cached.Token != "" {
		optimistic = State{Status: StatusAuthenticated, User: cached.User, Token: cached.Token}
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	optimistic, version := s.setLocked(optimistic)
	s.mu.Unlock()
	s.publish(optimistic, version)

	// The verification only lands if nothing changed the state meanwhile.
	p, err := s.api.CurrentUser(ctx)
	if err != nil {
		switch {
		case s.signedOut(gen, version):
			s.logger.Debug("stored credentials rejected", "error", err)
		case errors.Is(err, ErrUnauthorized):
			// Superseded, but a later operation may not have replaced the token yet.
			s.dropRejected(optimistic.Token)
		}
		if errors.Is(err, ErrUnauthorized) {
			return nil
		}
		return err
	}
	_ = s.signedIn(gen, version, p, optimistic.Token)
	return nil
}

// Login signs in. On failure the store keeps a server-confirmed identity;
// anything else, including an unconfirmed cached one, becomes anonymous.
func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	gen := s.begin()
	p, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.settleFailure(gen)
		return err
	}
	return s.signedIn(gen, 0, p, "")
}

// Register opens an account and signs in.
func (s *AuthStore) Register(ctx context.Context, name, email, password string) error {
	gen := s.begin()
	p, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.settleFailure(gen)
		return err
	}
	return s.signedIn(gen, 0, p, "")
}

func (s *AuthStore) settleFailure(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || (s.state.Status == StatusAuthenticated && s.state.Verified) {
		s.mu.Unlock()
		return
	}
	// Only an unconfirmed cached identity has something in the cache to drop.
	cached := s.state.Status == StatusAuthenticated
	st, v := s.setLocked(State{Status: StatusAnonymous})
	if cached {
		s.persist(st)
	}
	s.mu.Unlock()
	s.publish(st, v)
}

// Logout asks the server to end the session and always signs out locally.
// The server call is best effort.
func (s *AuthStore) Logout(ctx context.Context) {
	gen := s.begin()
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("server logout failed", "error", err)
	}
	s.signedOut(gen, 0)
}

// current returns the state for an operation that needs a signed-in user.
// Profile and password operations do not start a new generation, so a logout
// issued while they run still wins.
func (s *AuthStore) current() (State, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusAuthenticated {
		return State{}, 0, ErrNotAuthenticated
	}
	return s.state, s.gen, nil
}

// rejected signs out when the server no longer accepts the credentials.
func (s *AuthStore) rejected(gen uint64, err error) error {
	if errors.Is(err, ErrUnauthorized) {
		s.signedOut(gen, 0)
	}
	return err
}

// UpdateProfile saves profile fields. The server's profile replaces the
// local one and the held token is kept.
func (s *AuthStore) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	st, gen, err := s.current()
	if err != nil {
		return nil, err
	}
	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, s.rejected(gen, err)
	}
	if err := s.signedIn(gen, 0, &AuthPayload{User: user}, st.Token); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword changes the password and switches to the fresh token the
// server returns, since the old one is revoked.
func (s *AuthStore) ChangePassword(ctx context.Context, current, next string) error {
	st, gen, err := s.current()
	if err != nil {
		return err
	}
	token, err := s.api.ChangePassword(ctx, current, next)
	if err != nil {
		// A wrong current password is a 401 too but does not end the session.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "WRONG_PASSWORD" {
			return err
		}
		return s.rejected(gen, err)
	}
	return s.signedIn(gen, 0, &AuthPayload{User: st.User, Token: token}, st.Token)
}

// DeleteAccount deletes the account and forgets everything about it.
func (s *AuthStore) DeleteAccount(ctx context.Context) error {
	if _, _, err := s.current(); err != nil {
		return err
	}
	gen := s.begin()
	if err := s.api.DeleteAccount(ctx); err != nil {
		return s.rejected(gen, err)
	}
	s.signedOut(gen, 0)
	return nil
}

// ForgotPassword requests a temporary password. It does not change the state.
func (s *AuthStore) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	return s.api.ForgotPassword(ctx, email)
}
