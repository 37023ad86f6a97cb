package persistence

import (
	"context"
	"testing"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPlacementTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Placement{}))
	return db
}

func TestPlacementRepositoryReplaceSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the whole per-store snapshot", func(t *testing.T) {
		repo := NewGormPlacementRepository(setupPlacementTestDB(t))
		require.NoError(t, repo.ReplaceSnapshot(ctx, "store-1", []catalog.Placement{
			{WarehouseID: 1, SKU: 10, Zone: "A"},
			{WarehouseID: 2, SKU: 10, Zone: "B"},
		}))

		require.NoError(t, repo.ReplaceSnapshot(ctx, "store-1", []catalog.Placement{
			{WarehouseID: 3, SKU: 10, Zone: "C"},
		}))

		rows, err := repo.FindByStore(ctx, "store-1")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(3), rows[0].WarehouseID)
	})

	t.Run("other stores are untouched", func(t *testing.T) {
		repo := NewGormPlacementRepository(setupPlacementTestDB(t))
		require.NoError(t, repo.ReplaceSnapshot(ctx, "store-1", []catalog.Placement{{WarehouseID: 1, Zone: "A"}}))
		require.NoError(t, repo.ReplaceSnapshot(ctx, "store-2", []catalog.Placement{{WarehouseID: 2, Zone: "B"}}))

		count, err := repo.CountByStore(ctx, "store-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("incoming duplicates are collapsed", func(t *testing.T) {
		repo := NewGormPlacementRepository(setupPlacementTestDB(t))
		require.NoError(t, repo.ReplaceSnapshot(ctx, "store-1", []catalog.Placement{
			{WarehouseID: 1, SKU: 10, SellerSKU: "a", Zone: "A"},
			{WarehouseID: 1, SKU: 10, SellerSKU: "a", Zone: "A"},
		}))
		count, err := repo.CountByStore(ctx, "store-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects empty store identity", func(t *testing.T) {
		repo := NewGormPlacementRepository(setupPlacementTestDB(t))
		err := repo.ReplaceSnapshot(ctx, "", nil)
		assert.ErrorIs(t, err, catalog.ErrEmptyStoreIdentity)
	})
}
