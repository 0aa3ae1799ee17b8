package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userprofiles/internal/adapter/database"
)

func newTestDB(t *testing.T) *DB {
	db, err := New(":memory:", WithLogLevel(zerolog.Disabled))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func insertUser(db *DB, email string) sq.InsertBuilder {
	now := time.Now().UTC()

	return db.Builder().Insert("users").
		Columns("email", "full_name", "created_at", "updated_at").
		Values(email, "Test", now, now).
		Suffix("RETURNING id, email")
}

func TestParseDSN(t *testing.T) {
	assert.Equal(t, "data/app.db", ParseDSN("sqlite://data/app.db"))
	assert.Equal(t, "app.db", ParseDSN("sqlite3://app.db"))
	assert.Equal(t, ":memory:", ParseDSN(":memory:"))
	assert.Equal(t, "file:test.db?cache=shared", ParseDSN("file:test.db?cache=shared"))
}

func TestDB_Execute(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	t.Run("should return the rows of a RETURNING statement", func(t *testing.T) {
		rows, err := db.Execute(ctx, insertUser(db, "a@example.com"))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "a@example.com", rows[0]["email"])
		assert.NotNil(t, rows[0]["id"])
	})

	t.Run("should report unique violations", func(t *testing.T) {
		_, err := db.Execute(ctx, insertUser(db, "a@example.com"))

		assert.True(t, errors.Is(err, database.ErrUniqueViolation))
	})

	t.Run("should leave nothing behind after a failed statement", func(t *testing.T) {
		rows, err := db.Execute(ctx, db.Builder().Select("COUNT(*) AS total").From("users"))

		require.NoError(t, err)
		assert.EqualValues(t, 1, rows[0]["total"])
	})

	t.Run("should return an empty slice when nothing matches", func(t *testing.T) {
		rows, err := db.Execute(ctx, db.Builder().Select("id").From("users").Where(sq.Eq{"id": -1}))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("should answer pings", func(t *testing.T) {
		assert.NoError(t, db.Ping(ctx))
	})
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	db := newTestDB(t)

	assert.NoError(t, RunMigrations(db.DB))
}

func TestNew_KeepsOneHandleWithOneConnection(t *testing.T) {
	db := newTestDB(t)

	rows, err := db.Execute(context.Background(), insertUser(db, "single@example.com"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	stats := db.Stats()
	assert.Equal(t, 1, stats.MaxOpenConnections)
	assert.LessOrEqual(t, stats.OpenConnections, 1)
	assert.NoError(t, db.Ping(context.Background()))
}
