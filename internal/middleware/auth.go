// Package middleware resolves the request identity from a bearer token or the
// session cookie.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/samber/oops"

	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/model"
	"vibeboxing/internal/service"
)

const identityKey = "identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	User *model.User
	// Token is the presented bearer token, or a freshly minted one when the
	// identity came from the session cookie.
	Token  string
	Source string
}

// IdentityFrom returns the identity attached by AuthResolver.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SetSessionCookie writes the session cookie with a full TTL.
func SetSessionCookie(c echo.Context, cfg CookieConfig, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		Expires:  time.Now().Add(cfg.TTL),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context, cfg CookieConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the session cookie value of the request, if any.
func SessionID(c echo.Context, cfg CookieConfig) string {
	cookie, err := c.Cookie(cfg.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AuthResolver attaches an Identity to every request it can authenticate.
// A valid bearer token wins; otherwise a live session cookie is used and a new
// token is minted for it. Requests without either pass through anonymously.
type AuthResolver struct {
	auth    service.AuthService
	cookie  CookieConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAuthResolver creates the resolver.
func NewAuthResolver(auth service.AuthService, cookie CookieConfig, m *metrics.Metrics, logger *slog.Logger) *AuthResolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthResolver{auth: auth, cookie: cookie, metrics: m, logger: logger}
}

// Middleware returns the echo middleware chain: the echo-jwt bearer stage
// followed by the session fallback.
func (r *AuthResolver) Middleware() echo.MiddlewareFunc {
	bearer := echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := r.auth.AuthenticateToken(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			return &Identity{User: user, Token: token, Source: metrics.SourceToken}, nil
		},
		// A missing or rejected token is not fatal here: the session may still
		// identify the caller and RequireAuth guards protected routes.
		ErrorHandler: func(c echo.Context, err error) error {
			if _, ok := oops.AsOops(err); ok {
				logging.LogError(c.Request().Context(), r.logger, "bearer token resolution failed", err)
			}
			return nil
		},
		ContinueOnIgnoredError: true,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return bearer(r.sessionFallback(next))
	}
}

func (r *AuthResolver) sessionFallback(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, ok := IdentityFrom(c); ok {
			r.metrics.RecordAuthResolution(id.Source)
			return next(c)
		}
		sid := SessionID(c, r.cookie)
		if sid == "" {
			r.metrics.RecordAuthResolution(metrics.SourceNone)
			return next(c)
		}

		ctx := c.Request().Context()
		user, token, err := r.auth.AuthenticateSession(ctx, sid)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthenticated) {
				logging.LogError(ctx, r.logger, "session resolution failed", err)
			}
			r.metrics.RecordAuthResolution(metrics.SourceNone)
			return next(c)
		}

		SetSessionCookie(c, r.cookie, sid)
		c.Set(identityKey, &Identity{User: user, Token: token, Source: metrics.SourceSession})
		r.metrics.RecordAuthResolution(metrics.SourceSession)
		return next(c)
	}
}

// RequireAuth rejects requests without an identity with a uniform 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrUnauthenticated.Error(),
				Code:  "UNAUTHENTICATED",
			})
		}
		return next(c)
	}
}

// RequestID copies echo's request id into the request context for logging.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		if id == "" {
			id = c.Request().Header.Get(echo.HeaderXRequestID)
		}
		if id != "" {
			c.SetRequest(c.Request().WithContext(logging.WithRequestID(c.Request().Context(), id)))
		}
		return next(c)
	}
}
