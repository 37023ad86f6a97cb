// Package archive persists every raw request/response exchange with the
// remote platform and accumulates schema knowledge about its endpoints.
// The archived payloads double as the offline read source for views when a
// live call fails or is skipped.
package archive

import (
	"context"
	"time"

	"github.com/sellerdesk/backend/internal/domain/exchange"
	"go.uber.org/zap"
)

// Archive records exchanges and serves cached payloads.
type Archive struct {
	records  exchange.RecordRepository
	registry exchange.RegistryRepository
	log      *zap.Logger
}

// New creates an Archive
func New(records exchange.RecordRepository, registry exchange.RegistryRepository, log *zap.Logger) *Archive {
	return &Archive{
		records:  records,
		registry: registry,
		log:      log.Named("archive"),
	}
}

// Record archives one exchange: body truncation, content hash, schema
// inference, and a merged (never replaced) registry observation. The record
// insert is the part that matters; a registry failure is logged and
// swallowed so an observation bug can never fail a sync call.
func (a *Archive) Record(ctx context.Context, ex exchange.Exchange) error {
	rec := exchange.NewRecord(ex)
	if err := a.records.Insert(ctx, rec); err != nil {
		return err
	}

	if err := a.observe(ctx, ex, rec.FetchedAt); err != nil {
		a.log.Warn("registry observation failed",
			zap.String("endpoint", ex.Endpoint),
			zap.Error(err))
	}
	return nil
}

func (a *Archive) observe(ctx context.Context, ex exchange.Exchange, at time.Time) error {
	key := exchange.MakeRegistryKey(ex.Method, ex.Endpoint)
	entry, err := a.registry.Find(ctx, key)
	if err != nil {
		return err
	}
	if entry == nil {
		entry = &exchange.RegistryEntry{
			RegistryKey: key,
			Method:      ex.Method,
			Endpoint:    ex.Endpoint,
			EntityHint:  exchange.EntityHintForEndpoint(ex.Endpoint),
		}
	}

	var keys, paths []string
	if ex.Success {
		keys = exchange.InferIdentifierKeys(ex.ResponseBody)
		paths = exchange.InferArrayPaths(ex.ResponseBody)
	}
	entry.Observe(keys, paths, at)

	return a.registry.Save(ctx, entry)
}

// LatestPayloads returns the most recent successful response body per
// requested endpoint. Store-scoped records win; when a store has none, the
// most recent any-store record is used, which keeps read views working
// offline and between syncs. Endpoints with no archived payload are absent
// from the map.
func (a *Archive) LatestPayloads(ctx context.Context, storeIdentity string, endpoints []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(endpoints))
	for _, endpoint := range endpoints {
		rec, err := a.records.LatestSuccessful(ctx, storeIdentity, endpoint)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		out[endpoint] = []byte(rec.ResponseBody)
	}
	return out, nil
}
