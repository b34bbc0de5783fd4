//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"vibeboxing/internal/auth"
	"vibeboxing/internal/cache"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/model"
)

func startRedis(t *testing.T) *cache.Client {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	endpoint, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	c := cache.New(endpoint, "", 0, "test:")
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))
	return c
}

func TestAuthenticateToken_RevocationIgnoresCachedProfile(t *testing.T) {
	ctx := context.Background()
	c := startRedis(t)
	ledger := fixedNow.Truncate(time.Second)

	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(8)).
		Return(&model.User{ID: 8, Email: "ana@x.com", TokensValidAfter: ledger}, nil).Once()
	repo.On("FindByID", mock.Anything, uint(8)).
		Return(&model.User{ID: 8, Email: "ana@x.com", TokensValidAfter: ledger.Add(time.Second)}, nil)

	tokens := auth.NewJWTService("test-secret", auth.WithClock(func() time.Time { return fixedNow }))
	svc := NewAuthService(AuthDeps{
		Users:  repo,
		Cache:  c,
		Tokens: tokens,
		Hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		Now:    func() time.Time { return fixedNow },
	})
	token, _, err := tokens.Issue(8)
	require.NoError(t, err)

	_, err = svc.AuthenticateToken(ctx, token)
	require.NoError(t, err)

	var cached map[string]any
	require.True(t, c.GetJSON(ctx, "user:8", &cached))
	assert.Equal(t, "ana@x.com", cached["email"])
	assert.NotContains(t, cached, "tokens_valid_after")

	// The profile is still cached; the ledger read is not.
	_, err = svc.AuthenticateToken(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	repo.AssertNumberOfCalls(t, "FindByID", 2)
}
