package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "vibeboxing/docs" // swagger docs

	"vibeboxing/internal/app"
	"vibeboxing/internal/auth"
	"vibeboxing/internal/cache"
	"vibeboxing/internal/config"
	"vibeboxing/internal/db"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/mail"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/middleware"
	"vibeboxing/internal/repository"
)

var version = "dev"

// @title VibeBoxing API
// @version 1.0
// @description Boxing combo training log with JWT bearer tokens and cookie sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup("vibeboxing-api", version, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	gormDB, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return err
	}

	var cacheClient *cache.Client
	if cfg.Redis.Addr != "" {
		cacheClient = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "vibeboxing:")
		defer cacheClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
		}
		cancel()
	}

	var sessions auth.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		sessions = auth.NewRedisSessionStore(cacheClient, cfg.Session.TTL)
	default:
		sessions = auth.NewMemorySessionStore(cfg.Session.TTL, 10*time.Minute)
	}
	defer sessions.Close()

	mailer := mail.New(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		LoginURL: strings.TrimRight(cfg.AppURL, "/") + "/login",
	})
	if !mailer.Enabled() {
		logger.Warn("SMTP_HOST not set, password reset email is disabled")
	}

	e := app.New(app.Deps{
		Users:    repository.NewUserRepository(gormDB),
		Combos:   repository.NewComboRepository(gormDB),
		Sessions: sessions,
		Cache:    cacheClient,
		Tokens:   auth.NewJWTService(cfg.Auth.JWTSecret),
		Hasher:   auth.NewBcryptHasher(0),
		Mailer:   mailer,
		Metrics:  metrics.New(),
		Logger:   logger,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.IsProduction(),
		},
		Production:   cfg.IsProduction(),
		AllowOrigins: []string{cfg.AppURL},
	})

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		swaggerURL = host + "/swagger/index.html"
	}
	logger.Info("starting server", "port", cfg.ServerPort, "env", cfg.Env, "sessions", cfg.Session.Backend, "swagger", swaggerURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
