package persistence

import (
	"context"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormPlacementRepository implements catalog.PlacementRepository using GORM
type GormPlacementRepository struct {
	db *gorm.DB
}

// NewGormPlacementRepository creates a new GormPlacementRepository
func NewGormPlacementRepository(db *gorm.DB) *GormPlacementRepository {
	return &GormPlacementRepository{db: db}
}

// ReplaceSnapshot atomically swaps the per-store placement snapshot.
// Callers keep the previous snapshot by simply not calling this on an
// empty-but-successful fetch.
func (r *GormPlacementRepository) ReplaceSnapshot(ctx context.Context, storeIdentity string, rows []catalog.Placement) error {
	if storeIdentity == "" {
		return catalog.ErrEmptyStoreIdentity
	}
	rows = catalog.DedupPlacements(rows)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_identity = ?", storeIdentity).
			Delete(&catalog.Placement{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].StoreIdentity = storeIdentity
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, upsertBatchSize).Error
	})
}

// FindByStore returns the placement snapshot for a store
func (r *GormPlacementRepository) FindByStore(ctx context.Context, storeIdentity string) ([]catalog.Placement, error) {
	var rows []catalog.Placement
	query := r.db.WithContext(ctx).Model(&catalog.Placement{})
	if storeIdentity != "" {
		query = query.Where("store_identity = ?", storeIdentity)
	}
	if err := query.Order("warehouse_id asc, sku asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStore returns the snapshot size for a store
func (r *GormPlacementRepository) CountByStore(ctx context.Context, storeIdentity string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Placement{}).
		Where("store_identity = ?", storeIdentity).
		Count(&count).Error
	return count, err
}

var _ catalog.PlacementRepository = (*GormPlacementRepository)(nil)
