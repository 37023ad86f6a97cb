package exchange

import "context"

// RecordRepository persists archived exchanges. Inserts are append-only;
// records are never mutated afterwards.
type RecordRepository interface {
	Insert(ctx context.Context, rec *Record) error
	// LatestSuccessful returns the most recent successful record for the
	// endpoint, preferring rows scoped to the store identity and falling
	// back to the most recent any-store row. Returns nil when none exists.
	LatestSuccessful(ctx context.Context, storeIdentity, endpoint string) (*Record, error)
}

// RegistryRepository persists accumulated endpoint schema knowledge.
type RegistryRepository interface {
	Find(ctx context.Context, registryKey string) (*RegistryEntry, error)
	Save(ctx context.Context, entry *RegistryEntry) error
}
