package ozon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementFetcherFetch(t *testing.T) {
	items := []catalog.Item{
		{SKU: 555, SellerSKU: "MUG-1"},
		{SellerSKU: "PEN-1"},
	}

	t.Run("collects zones across warehouses and dedups", func(t *testing.T) {
		platform := newFakePlatform()
		platform.responses[EndpointWarehouseList] = `{"result":[
			{"warehouse_id":100,"name":"Moscow"},
			{"warehouse_id":"200","name":"Tver"}
		]}`
		// Both identifier spaces resolve to the same rows, so the
		// dedup pass must collapse them.
		platform.responses[EndpointPlacementZones] = `{"result":[
			{"sku":555,"seller_sku":"MUG-1","zone":"A1"}
		]}`
		srv := httptest.NewServer(platform)
		defer srv.Close()

		fetcher := NewPlacementFetcher(newTestClient(t, srv.URL, nil), 100, testLogger())
		rows, err := fetcher.Fetch(context.Background(), items)
		require.NoError(t, err)

		// One row per warehouse: the zone payload is identical per
		// warehouse, and the two identifier-space calls collapse.
		require.Len(t, rows, 2)
		assert.Equal(t, int64(100), rows[0].WarehouseID)
		assert.Equal(t, "Moscow", rows[0].WarehouseName)
		assert.Equal(t, "A1", rows[0].Zone)
		assert.Equal(t, int64(200), rows[1].WarehouseID)

		// 1 warehouse list + 2 warehouses x 2 identifier spaces.
		assert.Equal(t, 1, platform.calls[EndpointWarehouseList])
		assert.Equal(t, 4, platform.calls[EndpointPlacementZones])
	})

	t.Run("zone row may override the warehouse identifier", func(t *testing.T) {
		platform := newFakePlatform()
		platform.responses[EndpointWarehouseList] = `{"result":[{"warehouse_id":100,"name":"Moscow"}]}`
		platform.responses[EndpointPlacementZones] = `{"result":[
			{"warehouse_id":777,"offer_id":"MUG-1","zone":"B2"}
		]}`
		srv := httptest.NewServer(platform)
		defer srv.Close()

		fetcher := NewPlacementFetcher(newTestClient(t, srv.URL, nil), 100, testLogger())
		rows, err := fetcher.Fetch(context.Background(), items)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(777), rows[0].WarehouseID)
		// seller_sku falls back to offer_id.
		assert.Equal(t, "MUG-1", rows[0].SellerSKU)
	})

	t.Run("warehouse list failure is fatal", func(t *testing.T) {
		platform := newFakePlatform()
		platform.statuses[EndpointWarehouseList] = http.StatusInternalServerError
		srv := httptest.NewServer(platform)
		defer srv.Close()

		fetcher := NewPlacementFetcher(newTestClient(t, srv.URL, nil), 100, testLogger())
		_, err := fetcher.Fetch(context.Background(), items)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "warehouse list fetch failed")
	})

	t.Run("no warehouses yields no rows and no error", func(t *testing.T) {
		platform := newFakePlatform()
		platform.responses[EndpointWarehouseList] = `{"result":[]}`
		srv := httptest.NewServer(platform)
		defer srv.Close()

		fetcher := NewPlacementFetcher(newTestClient(t, srv.URL, nil), 100, testLogger())
		rows, err := fetcher.Fetch(context.Background(), items)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
