// Package views composes the read-side tables the desktop client renders:
// stock by warehouse zone and sales by posting. Views are derived on every
// request; nothing here is persisted.
package views

import (
	"context"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// StockService joins the catalog mirror with the placement snapshot.
type StockService struct {
	catalog    catalog.Repository
	placements catalog.PlacementRepository
	log        *zap.Logger
}

// NewStockService creates a StockService.
func NewStockService(catalogRepo catalog.Repository, placementRepo catalog.PlacementRepository, log *zap.Logger) *StockService {
	return &StockService{
		catalog:    catalogRepo,
		placements: placementRepo,
		log:        log.Named("views.stock"),
	}
}

type placementIndex struct {
	bySKU       map[int64][]catalog.Placement
	bySellerSKU map[string][]catalog.Placement
}

func indexPlacements(rows []catalog.Placement) *placementIndex {
	idx := &placementIndex{
		bySKU:       make(map[int64][]catalog.Placement),
		bySellerSKU: make(map[string][]catalog.Placement),
	}
	for _, row := range rows {
		if row.SKU != 0 {
			idx.bySKU[row.SKU] = append(idx.bySKU[row.SKU], row)
		}
		if row.SellerSKU != "" {
			idx.bySellerSKU[row.SellerSKU] = append(idx.bySellerSKU[row.SellerSKU], row)
		}
	}
	return idx
}

// lookup matches by marketplace SKU first and falls back to the seller SKU,
// so rows resolved through either identifier land on the same item.
func (idx *placementIndex) lookup(item catalog.Item) []catalog.Placement {
	if item.SKU != 0 {
		if rows, ok := idx.bySKU[item.SKU]; ok {
			return rows
		}
	}
	if item.SellerSKU != "" {
		return idx.bySellerSKU[item.SellerSKU]
	}
	return nil
}

// StockByWarehouse returns one row per item per distinct placement zone.
// Items without placements still produce a single row with empty warehouse
// fields, so the view always covers the whole catalog.
func (s *StockService) StockByWarehouse(ctx context.Context, storeIdentity string) ([]catalog.StockRow, error) {
	items, err := s.catalog.FindAll(ctx, storeIdentity)
	if err != nil {
		return nil, err
	}
	placements, err := s.placements.FindByStore(ctx, storeIdentity)
	if err != nil {
		return nil, err
	}
	idx := indexPlacements(placements)

	rows := make([]catalog.StockRow, 0, len(items))
	for _, item := range items {
		base := catalog.StockRow{
			StoreIdentity: item.StoreIdentity,
			OfferID:       item.OfferID,
			SKU:           item.SKU,
			SellerSKU:     item.SellerSKU,
			Name:          item.Name,
			Brand:         item.Brand,
			Barcode:       item.Barcode,
			Visibility:    item.Visibility,
			Price:         item.Price,
		}
		matched := catalog.ZoneBuckets(idx.lookup(item))
		if len(matched) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, placement := range matched {
			row := base
			row.WarehouseID = placement.WarehouseID
			row.WarehouseName = placement.WarehouseName
			row.Zone = placement.Zone
			rows = append(rows, row)
		}
	}

	s.log.Debug("stock view composed",
		zap.String("store", storeIdentity),
		zap.Int("items", len(items)),
		zap.Int("rows", len(rows)))
	return rows, nil
}
