package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyStoreIdentity = errors.New("catalog: store identity is empty")
	ErrEmptyOfferID       = errors.New("catalog: offer identifier is empty")
)

// Visibility is the tri-state visibility of an item on the marketplace.
type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
	VisibilityUnknown Visibility = "unknown"
)

// Item is one marketplace catalog entry mirrored into the local store.
// Uniqueness is scoped to (StoreIdentity, OfferID): the same offer identifier
// may legitimately exist under two different seller accounts on one machine.
type Item struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	StoreIdentity string `gorm:"type:varchar(64);not null;uniqueIndex:idx_catalog_store_offer,priority:1"`
	OfferID       string `gorm:"type:varchar(128);not null;uniqueIndex:idx_catalog_store_offer,priority:2"`
	ProductID     int64  `gorm:"index"`
	// SKU is the marketplace-assigned SKU; SellerSKU is the seller's own code.
	SKU                  int64  `gorm:"index"`
	SellerSKU            string `gorm:"type:varchar(128);index"`
	WarehouseSKUVariants string `gorm:"type:text"`
	Barcode              string `gorm:"type:varchar(64)"`
	Brand                string `gorm:"type:varchar(200)"`
	CategoryID           int64
	TypeID               int64
	Name                 string          `gorm:"type:varchar(500)"`
	PhotoURL             string          `gorm:"type:text"`
	Visibility           Visibility      `gorm:"type:varchar(16);not null;default:'unknown'"`
	HiddenReasons        string          `gorm:"type:text"`
	Price                decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OldPrice             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Archived             bool            `gorm:"not null;default:false"`
	RemoteCreatedAt      *time.Time
	LastSyncedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// Validate checks the fields that reconciliation depends on.
func (i *Item) Validate() error {
	if i.StoreIdentity == "" {
		return ErrEmptyStoreIdentity
	}
	if i.OfferID == "" {
		return ErrEmptyOfferID
	}
	return nil
}

// ReconcileResult reports the outcome of a catalog reconciliation pass.
type ReconcileResult struct {
	AddedCount int
	FinalCount int64
}
