package persistence

import (
	"context"
	"errors"

	"github.com/sellerdesk/backend/internal/domain/exchange"
	"gorm.io/gorm"
)

// GormExchangeRepository implements exchange.RecordRepository using GORM
type GormExchangeRepository struct {
	db *gorm.DB
}

// NewGormExchangeRepository creates a new GormExchangeRepository
func NewGormExchangeRepository(db *gorm.DB) *GormExchangeRepository {
	return &GormExchangeRepository{db: db}
}

// Insert appends an archive record. Records are never updated or deleted.
func (r *GormExchangeRepository) Insert(ctx context.Context, rec *exchange.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// LatestSuccessful returns the freshest successful record for the endpoint,
// store-scoped first, any-store second. Nil when the archive has nothing.
func (r *GormExchangeRepository) LatestSuccessful(ctx context.Context, storeIdentity, endpoint string) (*exchange.Record, error) {
	if storeIdentity != "" {
		rec, err := r.latest(ctx, endpoint, storeIdentity)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return r.latest(ctx, endpoint, "")
}

func (r *GormExchangeRepository) latest(ctx context.Context, endpoint, storeIdentity string) (*exchange.Record, error) {
	var rec exchange.Record
	query := r.db.WithContext(ctx).
		Where("endpoint = ? AND success = ?", endpoint, true)
	if storeIdentity != "" {
		query = query.Where("store_identity = ?", storeIdentity)
	}
	err := query.Order("fetched_at desc, id desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GormRegistryRepository implements exchange.RegistryRepository using GORM
type GormRegistryRepository struct {
	db *gorm.DB
}

// NewGormRegistryRepository creates a new GormRegistryRepository
func NewGormRegistryRepository(db *gorm.DB) *GormRegistryRepository {
	return &GormRegistryRepository{db: db}
}

// Find returns the registry entry for a key, nil when unseen
func (r *GormRegistryRepository) Find(ctx context.Context, registryKey string) (*exchange.RegistryEntry, error) {
	var entry exchange.RegistryEntry
	err := r.db.WithContext(ctx).
		Where("registry_key = ?", registryKey).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Save upserts a registry entry
func (r *GormRegistryRepository) Save(ctx context.Context, entry *exchange.RegistryEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

var (
	_ exchange.RecordRepository   = (*GormExchangeRepository)(nil)
	_ exchange.RegistryRepository = (*GormRegistryRepository)(nil)
)
