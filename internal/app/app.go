// Package app assembles the HTTP server from its collaborators. The server
// binary and the end-to-end tests build the same echo instance through it.
package app

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"vibeboxing/internal/auth"
	"vibeboxing/internal/cache"
	"vibeboxing/internal/handler"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/mail"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/middleware"
	"vibeboxing/internal/repository"
	"vibeboxing/internal/router"
	"vibeboxing/internal/service"
)

// Deps are the infrastructure pieces the server runs on.
type Deps struct {
	Users    repository.UserRepository
	Combos   repository.ComboRepository
	Sessions auth.SessionStore
	Cache    *cache.Client
	Tokens   *auth.JWTService
	Hasher   auth.PasswordHasher
	Mailer   mail.Mailer
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Cookie   middleware.CookieConfig

	Production   bool
	AllowOrigins []string
	// Now overrides the revocation ledger clock.
	Now func() time.Time
}

// New builds a ready-to-serve echo instance.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}

	authService := service.NewAuthService(service.AuthDeps{
		Users:      d.Users,
		Cache:      d.Cache,
		Tokens:     d.Tokens,
		Sessions:   d.Sessions,
		Hasher:     d.Hasher,
		Mailer:     d.Mailer,
		Metrics:    d.Metrics,
		Logger:     d.Logger,
		Production: d.Production,
		Now:        d.Now,
	})
	userService := service.NewUserService(d.Users, d.Sessions, d.Cache, d.Logger)
	comboService := service.NewComboService(d.Combos, d.Metrics)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, router.Options{
		Resolver:     middleware.NewAuthResolver(authService, d.Cookie, d.Metrics, d.Logger),
		Metrics:      d.Metrics,
		Logger:       d.Logger,
		AllowOrigins: d.AllowOrigins,
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, d.Cookie, d.Logger),
		User:    handler.NewUserHandler(userService, d.Cookie, d.Logger),
		Combo:   handler.NewComboHandler(comboService, d.Logger),
		Catalog: handler.NewCatalogHandler(),
	})
	return e
}
