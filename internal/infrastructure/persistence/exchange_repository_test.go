package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/sellerdesk/backend/internal/domain/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupExchangeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&exchange.Record{}, &exchange.RegistryEntry{}))
	return db
}

func archivedRecord(store, endpoint string, success bool, at time.Time) *exchange.Record {
	return exchange.NewRecord(exchange.Exchange{
		StoreIdentity: store,
		Method:        "POST",
		Endpoint:      endpoint,
		ResponseBody:  []byte(`{"result":[]}`),
		HTTPStatus:    200,
		Success:       success,
		FetchedAt:     at,
	})
}

func TestExchangeRepositoryLatestSuccessful(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the freshest successful record for the store", func(t *testing.T) {
		repo := NewGormExchangeRepository(setupExchangeTestDB(t))
		require.NoError(t, repo.Insert(ctx, archivedRecord("s1", "/v3/posting/fbs/list", true, base)))
		require.NoError(t, repo.Insert(ctx, archivedRecord("s1", "/v3/posting/fbs/list", true, base.Add(time.Hour))))
		require.NoError(t, repo.Insert(ctx, archivedRecord("s1", "/v3/posting/fbs/list", false, base.Add(2*time.Hour))))

		rec, err := repo.LatestSuccessful(ctx, "s1", "/v3/posting/fbs/list")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.True(t, rec.FetchedAt.Equal(base.Add(time.Hour)))
	})

	t.Run("falls back to any store when the store has nothing", func(t *testing.T) {
		repo := NewGormExchangeRepository(setupExchangeTestDB(t))
		require.NoError(t, repo.Insert(ctx, archivedRecord("other", "/v3/posting/fbs/list", true, base)))

		rec, err := repo.LatestSuccessful(ctx, "s1", "/v3/posting/fbs/list")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "other", rec.StoreIdentity)
	})

	t.Run("nil when the archive has nothing for the endpoint", func(t *testing.T) {
		repo := NewGormExchangeRepository(setupExchangeTestDB(t))
		rec, err := repo.LatestSuccessful(ctx, "s1", "/v1/warehouse/list")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestRegistryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("find returns nil for unseen keys", func(t *testing.T) {
		repo := NewGormRegistryRepository(setupExchangeTestDB(t))
		entry, err := repo.Find(ctx, "POST /v3/product/list")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("save and reload keeps merged knowledge", func(t *testing.T) {
		repo := NewGormRegistryRepository(setupExchangeTestDB(t))
		entry := &exchange.RegistryEntry{
			RegistryKey: "POST /v3/product/list",
			Method:      "POST",
			Endpoint:    "/v3/product/list",
			EntityHint:  "product",
		}
		entry.Observe([]string{"offer_id"}, []string{"result.items"}, time.Now())
		require.NoError(t, repo.Save(ctx, entry))

		loaded, err := repo.Find(ctx, "POST /v3/product/list")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, []string{"offer_id"}, loaded.Keys())

		loaded.Observe([]string{"product_id"}, nil, time.Now())
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.Find(ctx, "POST /v3/product/list")
		require.NoError(t, err)
		assert.Equal(t, []string{"offer_id", "product_id"}, reloaded.Keys())
		assert.Equal(t, int64(2), reloaded.SampleCount)
	})
}
