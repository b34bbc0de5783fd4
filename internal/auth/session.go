package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// SessionTTL is the sliding lifetime of a cookie session.
const SessionTTL = 30 * 24 * time.Hour

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session binds an opaque cookie value to a user.
type Session struct {
	UserID     uint      `json:"user_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// SessionStore persists sessions keyed by session id. Implementations
// refresh the expiry on every successful Touch.
type SessionStore interface {
	Create(ctx context.Context, userID uint) (id string, err error)
	// Touch returns the session and slides its expiry forward.
	Touch(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteUser removes every session belonging to userID.
	DeleteUser(ctx context.Context, userID uint) error
	Close() error
}

// NewSessionID returns 32 random bytes hex encoded.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandom, err)
	}
	return hex.EncodeToString(b), nil
}

// hashSessionID derives the storage key so raw cookie values are never persisted.
func hashSessionID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}
