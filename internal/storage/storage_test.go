package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartstate/internal/port"
	"github.com/nikolayk812/cartstate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_kv_entries.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startRedis(ctx context.Context) (testcontainers.Container, string, error) {
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.4-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("testcontainers.GenericContainer: %w", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		return nil, "", fmt.Errorf("rc.Endpoint: %w", err)
	}

	return redisContainer, endpoint, nil
}

// runStorageContract exercises the behaviour every backend shares.
func runStorageContract(t *testing.T, s port.Storage) {
	t.Helper()

	t.Run("get absent key: not found", func(t *testing.T) {
		v, ok, err := s.Get(t.Context(), gofakeit.UUID())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get: ok", func(t *testing.T) {
		key := gofakeit.UUID()
		value := gofakeit.Name()

		require.NoError(t, s.Set(t.Context(), key, value))

		got, ok, err := s.Get(t.Context(), key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, value, got)
	})

	t.Run("set overwrites previous value: ok", func(t *testing.T) {
		key := gofakeit.UUID()

		require.NoError(t, s.Set(t.Context(), key, "[]"))
		require.NoError(t, s.Set(t.Context(), key, `[{"id":1,"amount":2}]`))

		got, ok, err := s.Get(t.Context(), key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":1,"amount":2}]`, got)
	})

	t.Run("empty key: error", func(t *testing.T) {
		_, _, err := s.Get(t.Context(), "")
		require.ErrorIs(t, err, storage.ErrEmptyKey)

		err = s.Set(t.Context(), "", "x")
		require.ErrorIs(t, err, storage.ErrEmptyKey)
	})
}
