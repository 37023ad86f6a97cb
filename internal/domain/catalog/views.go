package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StockRow is one computed row of the stock-by-warehouse view. It is never
// persisted; the view is derived on read from catalog items and placements.
type StockRow struct {
	StoreIdentity string          `json:"store_identity"`
	OfferID       string          `json:"offer_id"`
	SKU           int64           `json:"sku"`
	SellerSKU     string          `json:"seller_sku"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Barcode       string          `json:"barcode"`
	Visibility    Visibility      `json:"visibility"`
	Price         decimal.Decimal `json:"price"`
	// Warehouse fields are empty when the item has no placement rows.
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Zone          string `json:"zone"`
}

// SalesRow is one computed row of the sales-by-posting view.
type SalesRow struct {
	StoreIdentity string          `json:"store_identity"`
	PostingNumber string          `json:"posting_number"`
	Status        string          `json:"status"`
	SKU           int64           `json:"sku"`
	OfferID       string          `json:"offer_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	// InProcessAt and DeliveryDate are kept as the remote's ISO-8601 strings;
	// lexicographic order on them is chronological order.
	InProcessAt  string `json:"in_process_at"`
	DeliveryDate string `json:"delivery_date"`
}

type salesKey struct {
	postingNumber string
	sku           int64
}

// DedupSalesRows collapses rows sharing (posting number, SKU). On collision
// the row with a non-empty delivery date wins; when both are non-empty the
// lexicographically later date wins.
func DedupSalesRows(rows []SalesRow) []SalesRow {
	byKey := make(map[salesKey]SalesRow, len(rows))
	order := make([]salesKey, 0, len(rows))
	for _, row := range rows {
		key := salesKey{postingNumber: row.PostingNumber, sku: row.SKU}
		prev, ok := byKey[key]
		if !ok {
			byKey[key] = row
			order = append(order, key)
			continue
		}
		if salesRowWins(row, prev) {
			byKey[key] = row
		}
	}
	out := make([]SalesRow, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func salesRowWins(candidate, current SalesRow) bool {
	if candidate.DeliveryDate == "" {
		return false
	}
	if current.DeliveryDate == "" {
		return true
	}
	return candidate.DeliveryDate > current.DeliveryDate
}

// SortSalesRows orders rows by in-process timestamp descending, then posting
// number descending, then offer identifier ascending.
func SortSalesRows(rows []SalesRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].InProcessAt != rows[j].InProcessAt {
			return rows[i].InProcessAt > rows[j].InProcessAt
		}
		if rows[i].PostingNumber != rows[j].PostingNumber {
			return rows[i].PostingNumber > rows[j].PostingNumber
		}
		return rows[i].OfferID < rows[j].OfferID
	})
}

// ZoneBuckets collapses placement rows to one representative row per
// distinct zone, so warehouses sharing a zone do not duplicate view rows.
func ZoneBuckets(rows []Placement) []Placement {
	seen := make(map[string]struct{}, len(rows))
	out := make([]Placement, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Zone]; ok {
			continue
		}
		seen[row.Zone] = struct{}{}
		out = append(out, row)
	}
	return out
}
