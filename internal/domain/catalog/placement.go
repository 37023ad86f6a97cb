package catalog

// Placement is one warehouse placement row for a SKU. The set of rows for a
// store is replaced wholesale on every successful placement sync, never
// merged, so the model carries no sync bookkeeping of its own.
type Placement struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	StoreIdentity string `gorm:"type:varchar(64);not null;index"`
	WarehouseID   int64  `gorm:"not null;index"`
	WarehouseName string `gorm:"type:varchar(200)"`
	// SKU is the marketplace SKU; zero when the zone was resolved through the
	// seller SKU only.
	SKU       int64  `gorm:"index"`
	SellerSKU string `gorm:"type:varchar(128);index"`
	Zone      string `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (Placement) TableName() string {
	return "placement_rows"
}

// PlacementKey is the deduplication key for placement rows accumulated across
// per-warehouse zone calls.
type PlacementKey struct {
	WarehouseID int64
	SKU         int64
	SellerSKU   string
	Zone        string
}

// Key returns the deduplication key of the row.
func (p Placement) Key() PlacementKey {
	return PlacementKey{
		WarehouseID: p.WarehouseID,
		SKU:         p.SKU,
		SellerSKU:   p.SellerSKU,
		Zone:        p.Zone,
	}
}

// DedupPlacements drops rows whose deduplication key was already seen,
// keeping the first occurrence.
func DedupPlacements(rows []Placement) []Placement {
	seen := make(map[PlacementKey]struct{}, len(rows))
	out := make([]Placement, 0, len(rows))
	for _, row := range rows {
		key := row.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}
