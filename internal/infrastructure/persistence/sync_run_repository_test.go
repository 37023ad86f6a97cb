package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/sellerdesk/backend/internal/domain/syncrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSyncRunTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&syncrun.Run{}))
	return db
}

func TestSyncRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create, complete, reload", func(t *testing.T) {
		repo := NewGormSyncRunRepository(setupSyncRunTestDB(t))
		run := syncrun.NewRun(syncrun.KindCatalogSync, "store-1")
		require.NoError(t, repo.Create(ctx, run))

		run.Complete(42, `{"pages":3}`)
		require.NoError(t, repo.Update(ctx, run))

		runs, err := repo.FindRecent(ctx, "store-1", 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, syncrun.StatusSuccess, runs[0].Status)
		assert.Equal(t, 42, runs[0].ItemCount)
		assert.NotNil(t, runs[0].FinishedAt)
	})

	t.Run("recent runs come back newest first and limited", func(t *testing.T) {
		repo := NewGormSyncRunRepository(setupSyncRunTestDB(t))
		for i := 0; i < 5; i++ {
			run := syncrun.NewRun(syncrun.KindCredentialCheck, "store-1")
			run.StartedAt = time.Date(2024, 4, 1+i, 0, 0, 0, 0, time.UTC)
			require.NoError(t, repo.Create(ctx, run))
		}

		runs, err := repo.FindRecent(ctx, "store-1", 3)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
		assert.True(t, runs[1].StartedAt.After(runs[2].StartedAt))
	})

	t.Run("prune removes old finished runs but never pending ones", func(t *testing.T) {
		repo := NewGormSyncRunRepository(setupSyncRunTestDB(t))
		cutoff := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

		oldDone := syncrun.NewRun(syncrun.KindCatalogSync, "store-1")
		oldDone.StartedAt = cutoff.AddDate(0, 0, -5)
		oldDone.Complete(1, "")
		require.NoError(t, repo.Create(ctx, oldDone))

		oldPending := syncrun.NewRun(syncrun.KindCatalogSync, "store-1")
		oldPending.StartedAt = cutoff.AddDate(0, 0, -5)
		require.NoError(t, repo.Create(ctx, oldPending))

		fresh := syncrun.NewRun(syncrun.KindCatalogSync, "store-1")
		fresh.StartedAt = cutoff.AddDate(0, 0, 1)
		fresh.Complete(1, "")
		require.NoError(t, repo.Create(ctx, fresh))

		pruned, err := repo.PruneOlderThan(ctx, cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(1), pruned)

		runs, err := repo.FindRecent(ctx, "store-1", 10)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}
