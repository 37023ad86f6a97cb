package syncrun

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the kind of sync run.
type Kind string

const (
	KindCredentialCheck Kind = "credential-check"
	KindCatalogSync     Kind = "catalog-sync"
)

// Status is the lifecycle state of a run. A row is created as pending and
// mutated exactly once, to success or error, when the run completes.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Run is one row of the sync run log.
type Run struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          Kind      `gorm:"type:varchar(32);not null;index"`
	Status        Status    `gorm:"type:varchar(16);not null;index"`
	StoreIdentity string    `gorm:"type:varchar(64);index"`
	StartedAt     time.Time `gorm:"not null"`
	FinishedAt    *time.Time
	ItemCount     int
	ErrorMessage  string `gorm:"type:text"`
	ErrorDetail   string `gorm:"type:text"`
	Meta          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Run) TableName() string {
	return "sync_runs"
}

// NewRun creates a pending run for the given store.
func NewRun(kind Kind, storeIdentity string) *Run {
	return &Run{
		ID:            uuid.New(),
		Kind:          kind,
		Status:        StatusPending,
		StoreIdentity: storeIdentity,
		StartedAt:     time.Now(),
	}
}

// Complete marks the run successful.
func (r *Run) Complete(itemCount int, meta string) {
	now := time.Now()
	r.Status = StatusSuccess
	r.FinishedAt = &now
	r.ItemCount = itemCount
	r.Meta = meta
}

// Fail marks the run failed, keeping the raw error message and any detail.
func (r *Run) Fail(err error, detail string) {
	now := time.Now()
	r.Status = StatusError
	r.FinishedAt = &now
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	r.ErrorDetail = detail
}

// Repository persists sync runs.
type Repository interface {
	Create(ctx context.Context, run *Run) error
	Update(ctx context.Context, run *Run) error
	FindRecent(ctx context.Context, storeIdentity string, limit int) ([]Run, error)
	// PruneOlderThan deletes finished runs started before the cutoff. Log
	// retention applies to the run log only, never the exchange archive.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
