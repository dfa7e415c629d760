package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/seatwise/server/internal/domain/events"
	"github.com/seatwise/server/internal/domain/users"
)

// setupRepository starts a throwaway postgres container, runs the
// migrations, and returns a Repository backed by it. Skipped under -short
// so the unit suite stays runnable without Docker.
func setupRepository(t *testing.T) (context.Context, *pgxpool.Pool, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("requires Docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("seatwise"),
		tcpostgres.WithUsername("seatwise"),
		tcpostgres.WithPassword("seatwise_test"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, migrateWithRetry(dbURL, migrationsDir(t), 10*time.Second))

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo, err := NewRepository(pool)
	require.NoError(t, err)
	return ctx, pool, repo
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "migrations")
}

// migrateWithRetry papers over the window where the container accepts
// connections but is not ready for DDL yet.
func migrateWithRetry(databaseURL string, migrationsPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := MigrateUp(databaseURL, migrationsPath); err != nil {
			if time.Now().After(deadline) {
				return err
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		return nil
	}
}

func seedUser(t *testing.T, ctx context.Context, repo *Repository, email string) *users.User {
	t.Helper()
	user, err := repo.Users().Create(ctx, users.CreateParams{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$12$test.hash.not.a.real.one.but.shaped.like.it000000000",
		Role:         users.RoleUser,
	})
	require.NoError(t, err)
	return user
}

func seedEvent(t *testing.T, ctx context.Context, repo *Repository, capacity int) *events.Event {
	t.Helper()
	event, err := repo.Events().Create(ctx, events.CreateParams{
		Name:     fmt.Sprintf("Event cap %d", capacity),
		Date:     time.Now().Add(48 * time.Hour).UTC(),
		Location: "Test Hall",
		Capacity: capacity,
	})
	require.NoError(t, err)
	return event
}
