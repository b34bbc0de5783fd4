// Package apptest runs the real HTTP server over in-memory storage for tests.
package apptest

import (
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vibeboxing/internal/app"
	"vibeboxing/internal/auth"
	"vibeboxing/internal/mail"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/middleware"
	"vibeboxing/internal/repository/repotest"
)

// Secret signs the tokens of every test server.
const Secret = "test-secret"

// Server is a running test server and the state behind it.
type Server struct {
	*httptest.Server
	Store    *repotest.Store
	Sessions *auth.MemorySessionStore
	Metrics  *metrics.Metrics
	Cookie   middleware.CookieConfig
}

// New starts a server. Each option may adjust the dependencies before the
// server is built. The server is closed when the test ends.
func New(t testing.TB, opts ...func(*app.Deps)) *Server {
	t.Helper()

	store := repotest.NewStore()
	sessions := auth.NewMemorySessionStore(auth.SessionTTL, time.Hour)
	m := metrics.New()
	cookie := middleware.CookieConfig{Name: "vibeboxing.sid", TTL: auth.SessionTTL}

	deps := app.Deps{
		Users:    store.Users(),
		Combos:   store.Combos(),
		Sessions: sessions,
		Tokens:   auth.NewJWTService(Secret),
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Mailer:   mail.New(mail.Config{}),
		Metrics:  m,
		Cookie:   cookie,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv := httptest.NewServer(app.New(deps))
	t.Cleanup(func() {
		srv.Close()
		_ = sessions.Close()
	})
	return &Server{Server: srv, Store: store, Sessions: sessions, Metrics: m, Cookie: cookie}
}

// WithMailer replaces the password reset mailer.
func WithMailer(m mail.Mailer) func(*app.Deps) {
	return func(d *app.Deps) { d.Mailer = m }
}

// Production enables production-only behavior.
func Production() func(*app.Deps) {
	return func(d *app.Deps) { d.Production = true }
}
