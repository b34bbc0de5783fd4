//go:build integration

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"vibeboxing/internal/cache"
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

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewRedisSessionStore(startRedis(t), time.Hour)

	id, err := s.Create(ctx, 5)
	require.NoError(t, err)

	sess, err := s.Touch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint(5), sess.UserID)

	other, err := s.Create(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Touch(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, s.DeleteUser(ctx, 5))
	_, err = s.Touch(ctx, other)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
