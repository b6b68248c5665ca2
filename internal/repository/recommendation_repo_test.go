package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mathieu-neron/songrec/internal/db"
	"github.com/mathieu-neron/songrec/internal/model"
	"github.com/mathieu-neron/songrec/internal/repository"
)

// Run locally:
//   GO_TEST_INTEGRATION=1 go test ./internal/repository -v -race -count=1

// startPostgres starts PostgreSQL in a container, applies the embedded
// migrations and returns a repository over a fresh pool.
func startPostgres(t *testing.T) *repository.RecommendationRepo {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "songrec", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "songrec"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://songrec:pass@%s:%s/songrec?sslmode=disable", host, port.Port())

	pool, err := db.NewPool(ctx, dsn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, zerolog.Nop()))
	// Migrations are idempotent.
	require.NoError(t, db.Migrate(ctx, pool, zerolog.Nop()))

	return repository.NewRecommendationRepo(pool)
}

func mustCreate(t *testing.T, repo *repository.RecommendationRepo, name string) *model.Recommendation {
	t.Helper()
	rec, err := repo.Create(context.Background(), name, "https://www.youtube.com/watch?v="+name)
	require.NoError(t, err)
	return rec
}

func TestIntegration_RecommendationRepo(t *testing.T) {
	repo := startPostgres(t)
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		require.NoError(t, repo.Truncate(ctx))
		rec := mustCreate(t, repo, "alpha")
		assert.Positive(t, rec.ID)
		assert.Zero(t, rec.Score)
		assert.False(t, rec.CreatedAt.IsZero())

		got, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.Name, got.Name)

		got, err = repo.FindByName(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)

		_, err = repo.FindByName(ctx, "missing")
		require.ErrorIs(t, err, repository.ErrNotFound)
		_, err = repo.FindByID(ctx, rec.ID+1000)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("duplicate name", func(t *testing.T) {
		require.NoError(t, repo.Truncate(ctx))
		mustCreate(t, repo, "beta")
		_, err := repo.Create(ctx, "beta", "https://youtu.be/other")
		require.ErrorIs(t, err, repository.ErrDuplicateName)
	})

	t.Run("find all newest first", func(t *testing.T) {
		require.NoError(t, repo.Truncate(ctx))
		var ids []int64
		for i := range 12 {
			ids = append(ids, mustCreate(t, repo, fmt.Sprintf("song-%d", i)).ID)
		}

		recs, err := repo.FindAll(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recs, 10)
		assert.Equal(t, ids[11], recs[0].ID)
		assert.Equal(t, ids[2], recs[9].ID)

		recs, err = repo.FindAll(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, recs, 12)
	})

	t.Run("top and score range", func(t *testing.T) {
		require.NoError(t, repo.Truncate(ctx))
		scores := []int{10, 8, 8, 3, -1, 11}
		ids := make([]int64, len(scores))
		for i, s := range scores {
			ids[i] = mustCreate(t, repo, fmt.Sprintf("ranked-%d", i)).ID
			_, err := repo.UpdateScore(ctx, ids[i], s)
			require.NoError(t, err)
		}

		top, err := repo.FindTop(ctx, 4)
		require.NoError(t, err)
		require.Len(t, top, 4)
		assert.Equal(t, []int64{ids[5], ids[0], ids[1], ids[2]}, []int64{top[0].ID, top[1].ID, top[2].ID, top[3].ID})

		popular, err := repo.FindByScoreRange(ctx, model.ScoresAbove(10))
		require.NoError(t, err)
		require.Len(t, popular, 1)
		assert.Equal(t, ids[5], popular[0].ID)

		baseline, err := repo.FindByScoreRange(ctx, model.ScoresAtMost(10))
		require.NoError(t, err)
		assert.Len(t, baseline, 5)
	})

	t.Run("update score and remove", func(t *testing.T) {
		require.NoError(t, repo.Truncate(ctx))
		rec := mustCreate(t, repo, "gamma")

		assert.Zero(t, rec.Version)
		updated, err := repo.UpdateScore(ctx, rec.ID, -6)
		require.NoError(t, err)
		assert.Equal(t, -6, updated.Score)
		assert.Equal(t, int64(1), updated.Version)

		require.NoError(t, repo.Remove(ctx, rec.ID))
		require.ErrorIs(t, repo.Remove(ctx, rec.ID), repository.ErrNotFound)
		_, err = repo.UpdateScore(ctx, rec.ID, 1)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("concurrent votes are atomic", func(t *testing.T) {
		require.NoError(t, repo.Truncate(ctx))
		rec := mustCreate(t, repo, "delta")

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.UpdateScore(ctx, rec.ID, 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, got.Score)
		assert.Equal(t, int64(50), got.Version)
	})

	t.Run("truncate keeps ids increasing", func(t *testing.T) {
		before := mustCreate(t, repo, "epsilon")
		require.NoError(t, repo.Truncate(ctx))
		after := mustCreate(t, repo, "epsilon")
		assert.Greater(t, after.ID, before.ID)
	})
}
