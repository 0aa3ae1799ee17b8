package http

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userprofiles/pkg/config"
)

func TestOpenGateway(t *testing.T) {
	t.Run("opens a migrated sqlite gateway", func(t *testing.T) {
		cfg := &config.Config{DatabaseURL: ":memory:", LogLevel: "error", ServiceName: "userprofiles-test"}

		db, err := OpenGateway(context.Background(), cfg)
		require.NoError(t, err)
		defer db.Close()

		assert.NoError(t, db.Ping(context.Background()))

		rows, err := db.Execute(context.Background(), db.Builder().Select("COUNT(*) AS total").From("users"))
		require.NoError(t, err)
		assert.EqualValues(t, 0, rows[0]["total"])
	})

	t.Run("rejects an unknown scheme", func(t *testing.T) {
		_, err := OpenGateway(context.Background(), &config.Config{DatabaseURL: "mysql://localhost/users"})

		assert.ErrorContains(t, err, "unsupported DATABASE_URL scheme")
	})
}

func TestNewContainer(t *testing.T) {
	cfg := &config.Config{DatabaseURL: ":memory:", LogLevel: "error", ServiceName: "userprofiles-test", ServiceVersion: "test"}

	db, err := OpenGateway(context.Background(), cfg)
	require.NoError(t, err)

	container := NewContainer(db, cfg, nil, nil)
	defer container.DB.Close()

	assert.Same(t, db, container.DB)
	assert.NotNil(t, container.UserHandler)
	assert.NotNil(t, container.WebHandler)
	assert.NotNil(t, container.HealthHandler)
}
