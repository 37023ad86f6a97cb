package persistence

import (
	"context"
	"time"

	"github.com/sellerdesk/backend/internal/domain/syncrun"
	"gorm.io/gorm"
)

// GormSyncRunRepository implements syncrun.Repository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create inserts a pending run row
func (r *GormSyncRunRepository) Create(ctx context.Context, run *syncrun.Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update writes the completed run row
func (r *GormSyncRunRepository) Update(ctx context.Context, run *syncrun.Run) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindRecent returns the latest runs, newest first
func (r *GormSyncRunRepository) FindRecent(ctx context.Context, storeIdentity string, limit int) ([]syncrun.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []syncrun.Run
	query := r.db.WithContext(ctx).Model(&syncrun.Run{})
	if storeIdentity != "" {
		query = query.Where("store_identity = ?", storeIdentity)
	}
	if err := query.Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// PruneOlderThan deletes finished runs started before the cutoff
func (r *GormSyncRunRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("started_at < ? AND status <> ?", cutoff, syncrun.StatusPending).
		Delete(&syncrun.Run{})
	return res.RowsAffected, res.Error
}

var _ syncrun.Repository = (*GormSyncRunRepository)(nil)
