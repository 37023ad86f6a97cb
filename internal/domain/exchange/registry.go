package exchange

import (
	"sort"
	"strings"
	"time"
)

// RegistryEntry accumulates schema knowledge inferred from observed
// responses for one endpoint. Inferences are merged across runs, never
// overwritten, so knowledge only grows (subject to the set caps).
type RegistryEntry struct {
	RegistryKey    string `gorm:"type:varchar(300);primaryKey"`
	Method         string `gorm:"type:varchar(8);not null"`
	Endpoint       string `gorm:"type:varchar(256);not null"`
	EntityHint     string `gorm:"type:varchar(64)"`
	IdentifierKeys string `gorm:"type:text"`
	ArrayPaths     string `gorm:"type:text"`
	SampleCount    int64  `gorm:"not null;default:0"`
	FirstSeenAt    time.Time
	LastSeenAt     time.Time
}

// TableName returns the table name for GORM
func (RegistryEntry) TableName() string {
	return "endpoint_registry"
}

// Keys returns the stored identifier-key set.
func (e *RegistryEntry) Keys() []string {
	return splitSet(e.IdentifierKeys)
}

// Paths returns the stored array-path set.
func (e *RegistryEntry) Paths() []string {
	return splitSet(e.ArrayPaths)
}

// Observe merges a new observation into the entry.
func (e *RegistryEntry) Observe(keys, paths []string, at time.Time) {
	e.IdentifierKeys = mergeSet(e.IdentifierKeys, keys, MaxIdentifierKeys)
	e.ArrayPaths = mergeSet(e.ArrayPaths, paths, MaxArrayPaths)
	e.SampleCount++
	if e.FirstSeenAt.IsZero() {
		e.FirstSeenAt = at
	}
	e.LastSeenAt = at
}

// EntityHintForEndpoint guesses what kind of entity an endpoint serves from
// its path segments.
func EntityHintForEndpoint(endpoint string) string {
	for _, hint := range []string{"product", "posting", "warehouse", "placement", "seller"} {
		if strings.Contains(endpoint, hint) {
			return hint
		}
	}
	return ""
}

func splitSet(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

// mergeSet unions the incoming values into the stored comma-joined set.
// Existing members keep their position; new members append in sorted order
// until the cap is reached.
func mergeSet(joined string, incoming []string, limit int) string {
	out := splitSet(joined)
	seen := make(map[string]struct{}, len(out))
	for _, v := range out {
		seen[v] = struct{}{}
	}
	fresh := make([]string, 0, len(incoming))
	for _, v := range incoming {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		fresh = append(fresh, v)
	}
	sort.Strings(fresh)
	out = append(out, fresh...)
	if len(out) > limit {
		out = out[:limit]
	}
	return strings.Join(out, ",")
}
