package persistence

import (
	"context"
	"time"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 200

// GormCatalogRepository implements catalog.Repository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Reconcile makes the stored set for the store exactly equal to the fetched
// set: upsert every fetched item, then delete the survivors of previous
// syncs that the fetch no longer contains. Runs in one transaction.
//
// Rows written in this pass share a single last_synced_at stamp; the
// deletion step removes every store-scoped row with an older stamp, which
// is exactly the set of offer IDs absent from the fetch. The step runs even
// when the fetched set is empty.
func (r *GormCatalogRepository) Reconcile(ctx context.Context, storeIdentity string, items []catalog.Item) (*catalog.ReconcileResult, error) {
	if storeIdentity == "" {
		return nil, catalog.ErrEmptyStoreIdentity
	}

	items = dedupByOfferID(items)
	syncedAt := time.Now()

	result := &catalog.ReconcileResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&catalog.Item{}).
			Where("store_identity = ?", storeIdentity).
			Pluck("offer_id", &existing).Error; err != nil {
			return err
		}
		known := make(map[string]struct{}, len(existing))
		for _, offerID := range existing {
			known[offerID] = struct{}{}
		}

		for start := 0; start < len(items); start += upsertBatchSize {
			end := start + upsertBatchSize
			if end > len(items) {
				end = len(items)
			}
			batch := make([]catalog.Item, end-start)
			copy(batch, items[start:end])
			for i := range batch {
				batch[i].ID = 0
				batch[i].StoreIdentity = storeIdentity
				batch[i].LastSyncedAt = syncedAt
				if err := batch[i].Validate(); err != nil {
					return err
				}
				if _, ok := known[batch[i].OfferID]; !ok {
					result.AddedCount++
				}
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "store_identity"}, {Name: "offer_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"product_id", "sku", "seller_sku", "warehouse_sku_variants",
					"barcode", "brand", "category_id", "type_id", "name",
					"photo_url", "visibility", "hidden_reasons", "price",
					"old_price", "archived", "remote_created_at", "last_synced_at",
				}),
			}).Create(&batch).Error; err != nil {
				return err
			}
		}

		if err := tx.
			Where("store_identity = ? AND last_synced_at < ?", storeIdentity, syncedAt).
			Delete(&catalog.Item{}).Error; err != nil {
			return err
		}

		return tx.Model(&catalog.Item{}).
			Where("store_identity = ?", storeIdentity).
			Count(&result.FinalCount).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindAll returns items ordered by offer identifier
func (r *GormCatalogRepository) FindAll(ctx context.Context, storeIdentity string) ([]catalog.Item, error) {
	var items []catalog.Item
	query := r.db.WithContext(ctx).Model(&catalog.Item{})
	if storeIdentity != "" {
		query = query.Where("store_identity = ?", storeIdentity)
	}
	if err := query.Order("offer_id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// dedupByOfferID keeps the last occurrence of every offer identifier so a
// single upsert batch never touches the same row twice.
func dedupByOfferID(items []catalog.Item) []catalog.Item {
	index := make(map[string]int, len(items))
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if at, ok := index[item.OfferID]; ok {
			out[at] = item
			continue
		}
		index[item.OfferID] = len(out)
		out = append(out, item)
	}
	return out
}

var _ catalog.Repository = (*GormCatalogRepository)(nil)
