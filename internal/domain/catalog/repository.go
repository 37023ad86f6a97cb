package catalog

import "context"

// Repository persists mirrored catalog items.
type Repository interface {
	// Reconcile upserts the fetched items for the store and deletes every
	// stored item whose offer identifier is absent from the fetched set, so
	// the local set exactly mirrors the remote one. Runs in one transaction.
	Reconcile(ctx context.Context, storeIdentity string, items []Item) (*ReconcileResult, error)
	// FindAll returns items ordered by offer identifier; an empty store
	// identity returns all stores.
	FindAll(ctx context.Context, storeIdentity string) ([]Item, error)
}

// PlacementRepository persists warehouse placement snapshots.
type PlacementRepository interface {
	// ReplaceSnapshot deletes the prior per-store snapshot and inserts the
	// given rows as one transaction. Callers must not invoke it with an
	// empty row set; an empty-but-successful fetch keeps the old snapshot.
	ReplaceSnapshot(ctx context.Context, storeIdentity string, rows []Placement) error
	FindByStore(ctx context.Context, storeIdentity string) ([]Placement, error)
	CountByStore(ctx context.Context, storeIdentity string) (int64, error)
}
