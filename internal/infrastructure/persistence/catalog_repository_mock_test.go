package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCatalogRepository creates a GormCatalogRepository against a mocked
// postgres connection, for asserting the generated SQL.
func newMockCatalogRepository(t *testing.T) (*GormCatalogRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCatalogRepository(gormDB), mock, mockDB
}

func TestGormCatalogRepository_FindAll_SQL(t *testing.T) {
	t.Run("scopes by store and orders by offer id", func(t *testing.T) {
		repo, mock, mockDB := newMockCatalogRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "store_identity", "offer_id"}).
			AddRow(1, "store-1", "a").
			AddRow(2, "store-1", "b")

		mock.ExpectQuery(`SELECT \* FROM "catalog_items" WHERE store_identity = \$1 ORDER BY offer_id asc`).
			WithArgs("store-1").
			WillReturnRows(rows)

		items, err := repo.FindAll(context.Background(), "store-1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].OfferID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty store identity means no store filter", func(t *testing.T) {
		repo, mock, mockDB := newMockCatalogRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "catalog_items" ORDER BY offer_id asc`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		items, err := repo.FindAll(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
