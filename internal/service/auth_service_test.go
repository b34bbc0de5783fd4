package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vibeboxing/internal/auth"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateCredentials(ctx context.Context, id uint, hash string, validAfter time.Time) error {
	return m.Called(ctx, id, hash, validAfter).Error(0)
}

func (m *MockUserRepository) RevokeTokens(ctx context.Context, id uint, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockSessionStore is a mock implementation of auth.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Touch(ctx context.Context, id string) (*auth.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionStore) DeleteUser(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockSessionStore) Close() error { return nil }

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, tempPassword string) error {
	return m.Called(ctx, to, tempPassword).Error(0)
}

var fixedNow = time.Date(2025, 5, 10, 9, 30, 15, 500_000_000, time.UTC)

func hashFor(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

type authFixture struct {
	repo     *MockUserRepository
	sessions *MockSessionStore
	mailer   *MockMailer
	tokens   *auth.JWTService
	svc      AuthService
}

func newAuthFixture(production bool) *authFixture {
	f := &authFixture{
		repo:     new(MockUserRepository),
		sessions: new(MockSessionStore),
		mailer:   new(MockMailer),
		tokens:   auth.NewJWTService("test-secret", auth.WithClock(func() time.Time { return fixedNow })),
	}
	f.svc = NewAuthService(AuthDeps{
		Users:      f.repo,
		Tokens:     f.tokens,
		Sessions:   f.sessions,
		Hasher:     auth.NewBcryptHasher(bcrypt.MinCost),
		Mailer:     f.mailer,
		Production: production,
		Now:        func() time.Time { return fixedNow },
	})
	return f
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*authFixture)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Email: " Ana@Example.com ", Password: "password123", Name: "Ana"},
			setupMock: func(f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, apperrors.ErrUserNotFound)
				f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				f.sessions.On("Create", mock.Anything, uint(1)).Return("sid", nil)
			},
		},
		{
			name:  "email already exists",
			input: RegisterInput{Email: "ana@example.com", Password: "password123", Name: "Ana"},
			setupMock: func(f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(&model.User{Email: "ana@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:          "short password",
			input:         RegisterInput{Email: "ana@example.com", Password: "12345", Name: "Ana"},
			setupMock:     func(*authFixture) {},
			expectedError: apperrors.ErrWeakPassword,
		},
		{
			name:          "password over bcrypt limit",
			input:         RegisterInput{Email: "ana@example.com", Password: strings.Repeat("x", 73), Name: "Ana"},
			setupMock:     func(*authFixture) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "missing name",
			input:         RegisterInput{Email: "ana@example.com", Password: "password123"},
			setupMock:     func(*authFixture) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(true)
			tt.setupMock(f)

			res, err := f.svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ana@example.com", res.User.Email)
				assert.NotEqual(t, "password123", res.User.PasswordHash)
				assert.Equal(t, "sid", res.SessionID)
				assert.Equal(t, fixedNow.Truncate(time.Second), res.User.TokensValidAfter)

				claims, err := f.tokens.Verify(res.Token)
				require.NoError(t, err)
				assert.Equal(t, uint(1), claims.UserID)
			}

			f.repo.AssertExpectations(t)
			f.sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*testing.T, *authFixture)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ana@example.com",
			password: "password123",
			setupMock: func(t *testing.T, f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "ana@example.com").
					Return(&model.User{ID: 4, Email: "ana@example.com", PasswordHash: hashFor(t, "password123")}, nil)
				f.sessions.On("Create", mock.Anything, uint(4)).Return("sid", nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(_ *testing.T, f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "ana@example.com",
			password: "nope-nope",
			setupMock: func(t *testing.T, f *authFixture) {
				f.repo.On("FindByEmail", mock.Anything, "ana@example.com").
					Return(&model.User{ID: 4, Email: "ana@example.com", PasswordHash: hashFor(t, "password123")}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "missing password",
			email:         "ana@example.com",
			setupMock:     func(*testing.T, *authFixture) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(true)
			tt.setupMock(t, f)

			res, err := f.svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, res.Token)
				assert.Equal(t, fixedNow.Add(auth.TokenExpiry), res.ExpiresAt)
			}

			f.repo.AssertExpectations(t)
			f.sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_InvalidCredentialsAreUniform(t *testing.T) {
	f := newAuthFixture(true)
	f.repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)
	f.repo.On("FindByEmail", mock.Anything, "ana@example.com").
		Return(&model.User{ID: 4, PasswordHash: hashFor(t, "password123")}, nil)

	_, errUnknown := f.svc.Login(context.Background(), "nobody@example.com", "x")
	_, errWrong := f.svc.Login(context.Background(), "ana@example.com", "x")
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

// countingHasher records how many comparisons were made.
type countingHasher struct {
	auth.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(password, hash)
}

func TestAuthService_UnknownEmailStillComparesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)
	hasher := &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)}
	svc := NewAuthService(AuthDeps{
		Users:  repo,
		Tokens: auth.NewJWTService("test-secret"),
		Hasher: hasher,
	})

	for range 2 {
		_, err := svc.Login(context.Background(), "nobody@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}
	assert.Equal(t, 2, hasher.verifies)
}

func TestAuthService_AuthenticateToken(t *testing.T) {
	ledger := fixedNow.Truncate(time.Second)

	tests := []struct {
		name          string
		validAfter    time.Time
		lookupErr     error
		expectedError error
	}{
		{name: "valid", validAfter: ledger},
		{name: "revoked by later ledger", validAfter: ledger.Add(time.Second), expectedError: apperrors.ErrUnauthenticated},
		{name: "user deleted", lookupErr: apperrors.ErrUserNotFound, expectedError: apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(true)
			token, _, err := f.tokens.Issue(8)
			require.NoError(t, err)

			if tt.lookupErr != nil {
				f.repo.On("FindByID", mock.Anything, uint(8)).Return(nil, tt.lookupErr)
			} else {
				f.repo.On("FindByID", mock.Anything, uint(8)).Return(&model.User{ID: 8, TokensValidAfter: tt.validAfter}, nil)
			}

			user, err := f.svc.AuthenticateToken(context.Background(), token)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(8), user.ID)
			}
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture(true)
		_, err := f.svc.AuthenticateToken(context.Background(), "garbage")
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_AuthenticateSessionMintsToken(t *testing.T) {
	f := newAuthFixture(true)
	f.sessions.On("Touch", mock.Anything, "sid").Return(&auth.Session{UserID: 3}, nil)
	f.repo.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3}, nil)

	user, token, err := f.svc.AuthenticateSession(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
}

func TestAuthService_AuthenticateSessionOrphaned(t *testing.T) {
	f := newAuthFixture(true)
	f.sessions.On("Touch", mock.Anything, "sid").Return(&auth.Session{UserID: 3}, nil)
	f.sessions.On("Delete", mock.Anything, "sid").Return(nil)
	f.repo.On("FindByID", mock.Anything, uint(3)).Return(nil, apperrors.ErrUserNotFound)

	_, _, err := f.svc.AuthenticateSession(context.Background(), "sid")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	f.sessions.AssertExpectations(t)
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("identified caller revokes tokens and ends session", func(t *testing.T) {
		f := newAuthFixture(true)
		f.repo.On("RevokeTokens", mock.Anything, uint(5), fixedNow.Truncate(time.Second)).Return(nil)
		f.sessions.On("Delete", mock.Anything, "sid").Return(nil)

		require.NoError(t, f.svc.Logout(context.Background(), 5, "sid"))
		f.repo.AssertExpectations(t)
		f.sessions.AssertExpectations(t)
	})

	t.Run("anonymous caller is a no-op", func(t *testing.T) {
		f := newAuthFixture(true)
		require.NoError(t, f.svc.Logout(context.Background(), 0, ""))
		f.repo.AssertNotCalled(t, "RevokeTokens", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure is reported after both steps ran", func(t *testing.T) {
		f := newAuthFixture(true)
		f.repo.On("RevokeTokens", mock.Anything, uint(5), mock.Anything).Return(errors.New("db down"))
		f.sessions.On("Delete", mock.Anything, "sid").Return(nil)

		assert.Error(t, f.svc.Logout(context.Background(), 5, "sid"))
		f.sessions.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		next          string
		expectedError error
	}{
		{name: "success", current: "password123", next: "newpass1"},
		{name: "wrong current", current: "nope", next: "newpass1", expectedError: apperrors.ErrWrongPassword},
		{name: "weak new password", current: "password123", next: "123", expectedError: apperrors.ErrWeakPassword},
		{name: "new password over bcrypt limit", current: "password123", next: strings.Repeat("x", 73), expectedError: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(true)
			f.repo.On("FindByID", mock.Anything, uint(2)).
				Return(&model.User{ID: 2, PasswordHash: hashFor(t, "password123")}, nil)
			if tt.expectedError == nil {
				f.repo.On("UpdateCredentials", mock.Anything, uint(2), mock.AnythingOfType("string"), fixedNow.Truncate(time.Second)).Return(nil)
			}

			token, err := f.svc.ChangePassword(context.Background(), 2, tt.current, tt.next)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				f.repo.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			claims, err := f.tokens.Verify(token)
			require.NoError(t, err)
			// The fresh token survives the revocation it was issued with.
			assert.False(t, claims.IssuedTime().Before(fixedNow.Truncate(time.Second)))
			f.repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ForgotPassword(t *testing.T) {
	user := func(t *testing.T) *model.User {
		return &model.User{ID: 6, Email: "ana@example.com", PasswordHash: hashFor(t, "old-password"), TokensValidAfter: fixedNow.Add(-time.Hour)}
	}

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(true)
		f.repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)

		_, err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("delivered", func(t *testing.T) {
		f := newAuthFixture(true)
		f.repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(user(t), nil)
		f.repo.On("UpdateCredentials", mock.Anything, uint(6), mock.AnythingOfType("string"), fixedNow.Truncate(time.Second)).Return(nil)
		f.mailer.On("SendPasswordReset", mock.Anything, "ana@example.com", mock.AnythingOfType("string")).Return(nil)

		res, err := f.svc.ForgotPassword(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.True(t, res.Delivered)
		assert.Empty(t, res.TempPassword)
		f.mailer.AssertExpectations(t)
	})

	t.Run("delivery failure outside production returns the password", func(t *testing.T) {
		f := newAuthFixture(false)
		var stored string
		f.repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(user(t), nil)
		f.repo.On("UpdateCredentials", mock.Anything, uint(6), mock.AnythingOfType("string"), mock.Anything).
			Run(func(args mock.Arguments) { stored = args.String(2) }).Return(nil)
		f.mailer.On("SendPasswordReset", mock.Anything, "ana@example.com", mock.Anything).Return(errors.New("smtp down"))

		res, err := f.svc.ForgotPassword(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.False(t, res.Delivered)
		assert.Len(t, res.TempPassword, auth.TempPasswordLength)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte(res.TempPassword)))
	})

	t.Run("delivery failure in production restores credentials", func(t *testing.T) {
		f := newAuthFixture(true)
		u := user(t)
		prevHash, prevLedger := u.PasswordHash, u.TokensValidAfter
		f.repo.On("FindByEmail", mock.Anything, "ana@example.com").Return(u, nil)
		f.repo.On("UpdateCredentials", mock.Anything, uint(6), mock.AnythingOfType("string"), fixedNow.Truncate(time.Second)).Return(nil).Once()
		f.repo.On("UpdateCredentials", mock.Anything, uint(6), prevHash, prevLedger).Return(nil).Once()
		f.mailer.On("SendPasswordReset", mock.Anything, "ana@example.com", mock.Anything).Return(errors.New("smtp down"))

		res, err := f.svc.ForgotPassword(context.Background(), "ana@example.com")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrMailDelivery)
		f.repo.AssertExpectations(t)
	})
}
