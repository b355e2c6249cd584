//go:build integration

package kvstore_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yigit/collegeportal/internal/app/migrations"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:15.3-alpine",
		postgres.WithDatabase("collegeportal"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to obtain connection string: %s", err)
	}

	pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres container: %s", err)
	}

	if err := migrations.NewMigrator(pool, zerolog.Nop()).Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %s", err)
	}

	code := m.Run()

	pool.Close()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func TestPostgresBackend(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewPostgresBackend(pool)
	store := kvstore.NewStore(backend, zerolog.Nop())

	_, err := backend.Get(ctx, kvstore.KeyEvents)
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	type event struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	require.NoError(t, store.Write(ctx, kvstore.KeyEvents, []event{{ID: "e1", Title: "Hackathon"}}))
	require.NoError(t, store.Write(ctx, kvstore.KeyEvents, []event{{ID: "e2", Title: "Fest"}, {ID: "e1", Title: "Hackathon"}}))

	got := kvstore.Load(ctx, store, kvstore.KeyEvents, []event(nil))
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)

	require.NoError(t, backend.Delete(ctx, kvstore.KeyEvents))
	_, err = backend.Get(ctx, kvstore.KeyEvents)
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).Migrate(context.Background()))
}
