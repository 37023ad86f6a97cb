package ozon

import (
	"context"
	"fmt"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// PlacementFetcher builds the per-store placement snapshot from the zone
// endpoint, one call per (warehouse, SKU chunk) and identifier space.
type PlacementFetcher struct {
	client    *Client
	chunkSize int
	log       *zap.Logger
}

// NewPlacementFetcher creates a PlacementFetcher.
func NewPlacementFetcher(client *Client, chunkSize int, log *zap.Logger) *PlacementFetcher {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &PlacementFetcher{
		client:    client,
		chunkSize: chunkSize,
		log:       log.Named("placement"),
	}
}

// Fetch resolves placement zones for the given catalog items across all
// warehouses. Zones are requested once per marketplace-SKU chunk and once
// per seller-SKU chunk, because some accounts only resolve one identifier
// space. Rows are deduplicated before return. A zero-row result with no
// error means the platform had no placement data; the caller keeps the
// previous snapshot in that case.
func (f *PlacementFetcher) Fetch(ctx context.Context, items []catalog.Item) ([]catalog.Placement, error) {
	store := f.client.StoreIdentity()

	warehouses, err := f.client.WarehouseList(ctx)
	if err != nil {
		return nil, fmt.Errorf("warehouse list fetch failed: %w", err)
	}

	var skus []int64
	var sellerSKUs []string
	for _, item := range items {
		if item.SKU != 0 {
			skus = append(skus, item.SKU)
		}
		if item.SellerSKU != "" {
			sellerSKUs = append(sellerSKUs, item.SellerSKU)
		}
	}

	var rows []catalog.Placement
	for _, wh := range warehouses {
		warehouseID := catalog.ParseExternalIDJSON(wh.WarehouseID)
		if !warehouseID.Valid() {
			f.log.Warn("skipping warehouse with unparseable identifier",
				zap.String("name", wh.Name))
			continue
		}

		for _, chunk := range chunkInt64(skus, f.chunkSize) {
			zones, err := f.client.PlacementZonesBySKU(ctx, warehouseID.Int64(), chunk)
			if err != nil {
				return nil, fmt.Errorf("placement zones by sku failed for warehouse %d: %w", warehouseID.Int64(), err)
			}
			rows = append(rows, convertZones(store, warehouseID.Int64(), wh.Name, zones)...)
		}

		for _, chunk := range chunkStrings(sellerSKUs, f.chunkSize) {
			zones, err := f.client.PlacementZonesBySellerSKU(ctx, warehouseID.Int64(), chunk)
			if err != nil {
				return nil, fmt.Errorf("placement zones by seller sku failed for warehouse %d: %w", warehouseID.Int64(), err)
			}
			rows = append(rows, convertZones(store, warehouseID.Int64(), wh.Name, zones)...)
		}
	}

	return catalog.DedupPlacements(rows), nil
}

func convertZones(store string, warehouseID int64, warehouseName string, zones []ZoneRow) []catalog.Placement {
	rows := make([]catalog.Placement, 0, len(zones))
	for _, zone := range zones {
		row := catalog.Placement{
			StoreIdentity: store,
			WarehouseID:   warehouseID,
			WarehouseName: warehouseName,
			SKU:           catalog.ParseExternalIDJSON(zone.SKU).Int64(),
			SellerSKU:     firstNonEmpty(zone.SellerSKU, zone.OfferID),
			Zone:          zone.Zone,
		}
		if rowID := catalog.ParseExternalIDJSON(zone.WarehouseID); rowID.Valid() {
			row.WarehouseID = rowID.Int64()
		}
		rows = append(rows, row)
	}
	return rows
}

func chunkStrings(values []string, size int) [][]string {
	if len(values) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
