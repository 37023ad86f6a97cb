// Package sync orchestrates full synchronization runs: catalog pagination
// and enrichment, local reconciliation, placement snapshot replacement and
// run logging.
package sync

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/domain/syncrun"
	"go.uber.org/zap"
)

// Remote is the slice of the platform gateway a sync run needs.
type Remote interface {
	StoreIdentity() string
	SellerInfo(ctx context.Context) (string, error)
	FetchCatalog(ctx context.Context) ([]catalog.Item, int, error)
	FetchPlacements(ctx context.Context, items []catalog.Item) ([]catalog.Placement, error)
}

// Service runs credential checks and catalog syncs. One run executes at a
// time from the caller's perspective; guarding against concurrent runs on
// the same local store is the caller's job.
type Service struct {
	remote     Remote
	catalog    catalog.Repository
	placements catalog.PlacementRepository
	runs       syncrun.Repository
	log        *zap.Logger
}

// NewService creates a sync Service.
func NewService(
	remote Remote,
	catalogRepo catalog.Repository,
	placementRepo catalog.PlacementRepository,
	runRepo syncrun.Repository,
	log *zap.Logger,
) *Service {
	return &Service{
		remote:     remote,
		catalog:    catalogRepo,
		placements: placementRepo,
		runs:       runRepo,
		log:        log.Named("sync"),
	}
}

// RunCredentialCheck verifies the credential pair by resolving the seller
// display name.
func (s *Service) RunCredentialCheck(ctx context.Context) *CredentialCheckResult {
	store := s.remote.StoreIdentity()
	run := syncrun.NewRun(syncrun.KindCredentialCheck, store)
	if err := s.runs.Create(ctx, run); err != nil {
		s.log.Error("failed to create run log row", zap.Error(err))
		return &CredentialCheckResult{Error: err.Error()}
	}

	name, err := s.remote.SellerInfo(ctx)
	if err != nil {
		run.Fail(err, "")
		s.closeRun(ctx, run)
		return &CredentialCheckResult{Error: err.Error()}
	}

	run.Complete(0, "")
	s.closeRun(ctx, run)
	return &CredentialCheckResult{OK: true, DisplayName: name}
}

// RunCatalogSync rebuilds the catalog mirror and the placement snapshot.
// A catalog failure aborts the run; a placement failure or an empty
// placement fetch keeps the previous snapshot and surfaces a warning.
func (s *Service) RunCatalogSync(ctx context.Context) *CatalogSyncResult {
	store := s.remote.StoreIdentity()
	run := syncrun.NewRun(syncrun.KindCatalogSync, store)
	if err := s.runs.Create(ctx, run); err != nil {
		s.log.Error("failed to create run log row", zap.Error(err))
		return &CatalogSyncResult{Error: err.Error()}
	}

	items, pages, err := s.remote.FetchCatalog(ctx)
	if err != nil {
		s.log.Error("catalog fetch failed",
			zap.String("store", store),
			zap.Int("pages", pages),
			zap.Error(err))
		run.Fail(err, "")
		s.closeRun(ctx, run)
		return &CatalogSyncResult{PageCount: pages, Error: err.Error()}
	}

	recon, err := s.catalog.Reconcile(ctx, store, items)
	if err != nil {
		run.Fail(err, "")
		s.closeRun(ctx, run)
		return &CatalogSyncResult{PageCount: pages, Error: err.Error()}
	}

	result := &CatalogSyncResult{
		OK:         true,
		ItemCount:  int(recon.FinalCount),
		AddedCount: recon.AddedCount,
		PageCount:  pages,
	}
	meta := runMeta{Pages: pages, Added: recon.AddedCount}

	s.syncPlacements(ctx, store, items, result, &meta)

	metaJSON, _ := json.Marshal(meta)
	run.Complete(result.ItemCount, string(metaJSON))
	s.closeRun(ctx, run)

	s.log.Info("catalog sync completed",
		zap.String("store", store),
		zap.Int("items", result.ItemCount),
		zap.Int("added", result.AddedCount),
		zap.Int("pages", pages),
		zap.Int("placement_rows", result.PlacementRowCount),
		zap.Bool("placement_kept", meta.PlacementKept))

	return result
}

// syncPlacements replaces the snapshot only when at least one row came
// back; a failed or empty fetch keeps the previous snapshot untouched.
func (s *Service) syncPlacements(ctx context.Context, store string, items []catalog.Item, result *CatalogSyncResult, meta *runMeta) {
	keep := func(warning string, err error) {
		if err != nil {
			s.log.Warn(warning, zap.String("store", store), zap.Error(err))
		} else {
			s.log.Warn(warning, zap.String("store", store))
		}
		result.PlacementWarning = warning
		meta.PlacementKept = true
		meta.PlacementWarning = warning
		if count, countErr := s.placements.CountByStore(ctx, store); countErr == nil {
			result.PlacementRowCount = int(count)
		}
	}

	rows, err := s.remote.FetchPlacements(ctx, items)
	if err != nil {
		keep("placement sync failed, previous snapshot kept", err)
		return
	}
	if len(rows) == 0 {
		keep("placement sync returned no rows, previous snapshot kept", nil)
		return
	}

	if err := s.placements.ReplaceSnapshot(ctx, store, rows); err != nil {
		keep("placement snapshot replace failed, previous snapshot kept", err)
		return
	}
	result.PlacementRowCount = len(rows)
	meta.PlacementRows = len(rows)
}

// ListRecentRuns returns the latest run log rows for the store.
func (s *Service) ListRecentRuns(ctx context.Context, limit int) ([]syncrun.Run, error) {
	return s.runs.FindRecent(ctx, s.remote.StoreIdentity(), limit)
}

// PruneRunLog deletes finished runs older than the retention window. The
// exchange archive is never pruned.
func (s *Service) PruneRunLog(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.runs.PruneOlderThan(ctx, cutoff)
}

func (s *Service) closeRun(ctx context.Context, run *syncrun.Run) {
	if err := s.runs.Update(ctx, run); err != nil {
		s.log.Error("failed to close run log row",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
	}
}
