package auth

import (
	"context"
	"sync"
	"time"
)

// MemorySessionStore keeps sessions in process memory. A janitor goroutine
// purges expired entries until Close is called.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time

	stop     chan struct{}
	done     chan struct{}
	closeOne sync.Once
}

var _ SessionStore = (*MemorySessionStore)(nil)

// MemoryStoreOption configures a MemorySessionStore.
type MemoryStoreOption func(*MemorySessionStore)

// WithSessionClock overrides the time source.
func WithSessionClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemorySessionStore) { s.now = now }
}

// NewMemorySessionStore starts a store whose janitor sweeps every interval.
func NewMemorySessionStore(ttl, interval time.Duration, opts ...MemoryStoreOption) *MemorySessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	if interval <= 0 {
		interval = time.Hour
	}
	s := &MemorySessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.janitor(interval)
	return s
}

func (s *MemorySessionStore) janitor(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.purgeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemorySessionStore) purgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, k)
			n++
		}
	}
	return n
}

// Create starts a session for userID and returns its cookie value.
func (s *MemorySessionStore) Create(_ context.Context, userID uint) (string, error) {
	id, err := NewSessionID()
	if err != nil {
		return "", err
	}
	now := s.now()
	s.mu.Lock()
	s.sessions[hashSessionID(id)] = &Session{UserID: userID, ExpiresAt: now.Add(s.ttl), LastSeenAt: now}
	s.mu.Unlock()
	return id, nil
}

// Touch looks up a live session and slides its expiry.
func (s *MemorySessionStore) Touch(_ context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	key := hashSessionID(id)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !now.Before(sess.ExpiresAt) {
		delete(s.sessions, key)
		return nil, ErrSessionNotFound
	}
	sess.ExpiresAt = now.Add(s.ttl)
	sess.LastSeenAt = now
	out := *sess
	return &out, nil
}

// Delete removes a session. Unknown ids are not an error.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, hashSessionID(id))
	s.mu.Unlock()
	return nil
}

// DeleteUser removes every session of userID.
func (s *MemorySessionStore) DeleteUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, k)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor and waits for it to exit.
func (s *MemorySessionStore) Close() error {
	s.closeOne.Do(func() { close(s.stop) })
	<-s.done
	return nil
}
