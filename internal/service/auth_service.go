package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"

	"vibeboxing/internal/auth"
	"vibeboxing/internal/cache"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/mail"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/model"
	"vibeboxing/internal/repository"
)

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult is returned by every operation that signs a user in.
type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
	// SessionID is the cookie value of the session opened alongside the token.
	SessionID string
}

// ResetResult reports how a forgotten-password request was fulfilled.
// TempPassword is only set when mail delivery failed outside production.
type ResetResult struct {
	Delivered    bool
	TempPassword string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Logout revokes the caller's tokens when userID is non-zero and ends the session.
	Logout(ctx context.Context, userID uint, sessionID string) error
	// AuthenticateToken verifies a bearer token against the user's revocation instant.
	AuthenticateToken(ctx context.Context, token string) (*model.User, error)
	// AuthenticateSession resolves a session cookie and mints a fresh token for it.
	AuthenticateSession(ctx context.Context, sessionID string) (*model.User, string, error)
	ChangePassword(ctx context.Context, userID uint, current, next string) (string, error)
	ForgotPassword(ctx context.Context, email string) (*ResetResult, error)
}

// AuthDeps groups the collaborators of the auth service.
type AuthDeps struct {
	Users      repository.UserRepository
	Cache      *cache.Client
	Tokens     *auth.JWTService
	Sessions   auth.SessionStore
	Hasher     auth.PasswordHasher
	Mailer     mail.Mailer
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Production bool
	// Now overrides the clock used for the revocation ledger.
	Now func() time.Time
}

type authService struct {
	AuthDeps
	lookup *userLookup

	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(deps AuthDeps) AuthService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &authService{
		AuthDeps: deps,
		lookup:   &userLookup{repo: deps.Users, cache: deps.Cache},
	}
}

// decoy returns a hash made with the configured hasher. Logins for unknown
// emails verify against it so they cost as much as a wrong password.
func (s *authService) decoy() string {
	s.decoyOnce.Do(func() {
		h, err := s.Hasher.Hash("vibeboxing-decoy-password")
		if err != nil {
			s.Logger.Warn("decoy password hash unavailable", "error", err)
			return
		}
		s.decoyHash = h
	})
	return s.decoyHash
}

// ledgerNow is the current instant at the token timestamp precision.
func (s *authService) ledgerNow() time.Time {
	return s.Now().UTC().Truncate(time.Second)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkPassword applies the length policy to a new password.
func checkPassword(password string) error {
	if len(password) < auth.MinPasswordLength {
		return apperrors.ErrWeakPassword
	}
	if len(password) > auth.MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", apperrors.ErrValidation, auth.MaxPasswordLength)
	}
	return nil
}

// Register creates a new user with hashed password and signs them in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", apperrors.ErrValidation)
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, oops.Code("REGISTER_FAILED").With("operation", "find_by_email").Wrap(err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("REGISTER_FAILED").With("operation", "hash").Wrap(err)
	}

	user := &model.User{
		Email:            email,
		PasswordHash:     hash,
		Name:             strings.TrimSpace(in.Name),
		TokensValidAfter: s.ledgerNow(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, err
		}
		return nil, oops.Code("REGISTER_FAILED").With("operation", "create").Wrap(err)
	}

	return s.signIn(ctx, user)
}

// Login authenticates a user and returns a token and a session.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.Users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.Hasher.Verify(password, s.decoy())
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, oops.Code("LOGIN_FAILED").With("operation", "find_by_email").Wrap(err)
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.signIn(ctx, user)
}

func (s *authService) signIn(ctx context.Context, user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, oops.Code("TOKEN_ISSUE_FAILED").With("user_id", user.ID).Wrap(err)
	}
	sid, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").With("user_id", user.ID).Wrap(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt, SessionID: sid}, nil
}

// Logout is idempotent. Both steps run even when one fails; the first error is returned.
func (s *authService) Logout(ctx context.Context, userID uint, sessionID string) error {
	var errs []error
	if userID != 0 {
		if err := s.Users.RevokeTokens(ctx, userID, s.ledgerNow()); err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
			errs = append(errs, oops.Code("LOGOUT_FAILED").With("operation", "revoke_tokens").Wrap(err))
		}
		s.lookup.invalidate(ctx, userID)
	}
	if sessionID != "" {
		if err := s.Sessions.Delete(ctx, sessionID); err != nil {
			errs = append(errs, oops.Code("LOGOUT_FAILED").With("operation", "delete_session").Wrap(err))
		}
	}
	return errors.Join(errs...)
}

func (s *authService) AuthenticateToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	user, err := s.lookup.load(ctx, claims.UserID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, oops.Code("AUTH_LOOKUP_FAILED").With("user_id", claims.UserID).Wrap(err)
	}
	if claims.IssuedTime().Before(user.TokensValidAfter) {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

func (s *authService) AuthenticateSession(ctx context.Context, sessionID string) (*model.User, string, error) {
	sess, err := s.Sessions.Touch(ctx, sessionID)
	if errors.Is(err, auth.ErrSessionNotFound) {
		return nil, "", apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, "", oops.Code("SESSION_LOOKUP_FAILED").Wrap(err)
	}

	user, err := s.lookup.load(ctx, sess.UserID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		_ = s.Sessions.Delete(ctx, sessionID)
		return nil, "", apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, "", oops.Code("AUTH_LOOKUP_FAILED").With("user_id", sess.UserID).Wrap(err)
	}

	token, _, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("TOKEN_ISSUE_FAILED").With("user_id", user.ID).Wrap(err)
	}
	return user, token, nil
}

// ChangePassword replaces the password, revokes outstanding tokens and returns
// a fresh token for the caller.
func (s *authService) ChangePassword(ctx context.Context, userID uint, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", fmt.Errorf("%w: current and new password are required", apperrors.ErrValidation)
	}
	user, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return "", apperrors.ErrUnauthenticated
	}
	if err != nil {
		return "", oops.Code("CHANGE_PASSWORD_FAILED").With("user_id", userID).Wrap(err)
	}
	if !s.Hasher.Verify(current, user.PasswordHash) {
		return "", apperrors.ErrWrongPassword
	}
	if err := checkPassword(next); err != nil {
		return "", err
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return "", oops.Code("CHANGE_PASSWORD_FAILED").With("operation", "hash").Wrap(err)
	}
	if err := s.Users.UpdateCredentials(ctx, userID, hash, s.ledgerNow()); err != nil {
		return "", oops.Code("CHANGE_PASSWORD_FAILED").With("user_id", userID).Wrap(err)
	}
	s.lookup.invalidate(ctx, userID)

	token, _, err := s.Tokens.Issue(userID)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("user_id", userID).Wrap(err)
	}
	return token, nil
}

// ForgotPassword replaces the password with a random temporary one and mails it.
// When delivery fails in production the previous credentials are restored so
// the account is not locked out.
func (s *authService) ForgotPassword(ctx context.Context, email string) (*ResetResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.Metrics.RecordPasswordReset("unknown_email")
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("RESET_FAILED").With("operation", "find_by_email").Wrap(err)
	}

	temp, err := auth.TemporaryPassword()
	if err != nil {
		return nil, oops.Code("RESET_FAILED").With("operation", "generate").Wrap(err)
	}
	hash, err := s.Hasher.Hash(temp)
	if err != nil {
		return nil, oops.Code("RESET_FAILED").With("operation", "hash").Wrap(err)
	}

	prevHash, prevLedger := user.PasswordHash, user.TokensValidAfter
	if err := s.Users.UpdateCredentials(ctx, user.ID, hash, s.ledgerNow()); err != nil {
		return nil, oops.Code("RESET_FAILED").With("user_id", user.ID).Wrap(err)
	}
	s.lookup.invalidate(ctx, user.ID)

	sendErr := s.Mailer.SendPasswordReset(ctx, user.Email, temp)
	if sendErr == nil {
		s.Metrics.RecordPasswordReset("delivered")
		return &ResetResult{Delivered: true}, nil
	}

	wrapped := oops.Code("MAIL_DELIVERY_FAILED").With("user_id", user.ID).Wrap(sendErr)
	logging.LogError(ctx, s.Logger, "password reset email not delivered", wrapped)

	if !s.Production {
		s.Metrics.RecordPasswordReset("returned_inline")
		return &ResetResult{TempPassword: temp}, nil
	}

	if err := s.Users.UpdateCredentials(ctx, user.ID, prevHash, prevLedger); err != nil {
		logging.LogError(ctx, s.Logger, "restore credentials after failed reset",
			oops.Code("RESET_ROLLBACK_FAILED").With("user_id", user.ID).Wrap(err))
	}
	s.lookup.invalidate(ctx, user.ID)
	s.Metrics.RecordPasswordReset("failed")
	return nil, oops.Code("MAIL_DELIVERY_FAILED").With("user_id", user.ID).Wrap(apperrors.ErrMailDelivery)
}
