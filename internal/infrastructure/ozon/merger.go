package ozon

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// brandAttributeIDs is the prioritized list of attribute IDs historically
// observed to carry the brand. Scanned in order; the first one with a
// usable value wins.
var brandAttributeIDs = []int64{85, 31, 8229}

const maxHiddenReasons = 12

// Merger joins base listing entries with extended-info and attribute calls
// into enriched catalog items.
type Merger struct {
	client    *Client
	chunkSize int
	log       *zap.Logger
}

// NewMerger creates a Merger.
func NewMerger(client *Client, chunkSize int, log *zap.Logger) *Merger {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &Merger{
		client:    client,
		chunkSize: chunkSize,
		log:       log.Named("merger"),
	}
}

// Enrich merges a batch of base listing entries into catalog items. An
// extended-info failure is fatal; an attributes failure degrades the batch
// to base fields only, it never fails the merge.
func (m *Merger) Enrich(ctx context.Context, entries []ProductListEntry) ([]catalog.Item, error) {
	store := m.client.StoreIdentity()

	type base struct {
		entry ProductListEntry
		id    catalog.ExternalID
	}
	bases := make([]base, 0, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.OfferID == "" {
			continue
		}
		id := catalog.ParseExternalIDJSON(entry.ProductID)
		bases = append(bases, base{entry: entry, id: id})
		if id.Valid() {
			ids = append(ids, id.Int64())
		}
	}

	infoByID := make(map[int64]ProductInfo, len(ids))
	attrsByID := make(map[int64]AttributeSet, len(ids))
	for _, chunk := range chunkInt64(ids, m.chunkSize) {
		infos, err := m.client.ProductInfoList(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("extended info fetch failed: %w", err)
		}
		for _, info := range infos {
			if id := catalog.ParseExternalIDJSON(info.ID); id.Valid() {
				infoByID[id.Int64()] = info
			}
		}

		attrs, err := m.client.ProductAttributes(ctx, chunk)
		if err != nil {
			m.log.Warn("attribute enrichment failed, keeping base fields",
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err))
			continue
		}
		for _, set := range attrs {
			if id := catalog.ParseExternalIDJSON(set.ID); id.Valid() {
				attrsByID[id.Int64()] = set
			}
		}
	}

	now := time.Now()
	items := make([]catalog.Item, 0, len(bases))
	for _, b := range bases {
		item := catalog.Item{
			StoreIdentity: store,
			OfferID:       b.entry.OfferID,
			// The seller's own article code is the offer identifier.
			SellerSKU:    b.entry.OfferID,
			ProductID:    b.id.Int64(),
			Archived:     b.entry.Archived,
			Visibility:   catalog.VisibilityUnknown,
			LastSyncedAt: now,
		}
		if info, ok := infoByID[b.id.Int64()]; ok && b.id.Valid() {
			applyInfo(&item, info)
		}
		if set, ok := attrsByID[b.id.Int64()]; ok && b.id.Valid() {
			applyAttributes(&item, set)
		}
		items = append(items, item)
	}
	return items, nil
}

func applyInfo(item *catalog.Item, info ProductInfo) {
	item.Name = info.Name
	item.SKU = catalog.ParseExternalIDJSON(info.SKU).Int64()
	item.Barcode = firstNonEmpty(info.Barcode, first(info.Barcodes))
	item.WarehouseSKUVariants = skuVariants(info.Sources)
	item.PhotoURL = primaryImage(info)
	item.Price = parsePrice(info.Price)
	item.OldPrice = parsePrice(info.OldPrice)
	item.Visibility = resolveVisibility(info)
	item.HiddenReasons = buildHiddenReasons(info)
	if t, err := time.Parse(time.RFC3339, info.CreatedAt); err == nil {
		item.RemoteCreatedAt = &t
	}
}

func applyAttributes(item *catalog.Item, set AttributeSet) {
	if brand := resolveBrand(set); brand != "" {
		item.Brand = brand
	}
	if item.Barcode == "" {
		item.Barcode = set.Barcode
	}
	if set.CategoryID != 0 {
		item.CategoryID = set.CategoryID
	}
	if set.TypeID != 0 {
		item.TypeID = set.TypeID
	}
}

// resolveBrand scans the prioritized attribute IDs in order and accepts the
// first attribute with a non-empty trimmed value, falling back to its
// dictionary value identifier when the textual value is empty.
func resolveBrand(set AttributeSet) string {
	for _, wantID := range brandAttributeIDs {
		for _, attr := range set.Attributes {
			if attr.NumericID() != wantID {
				continue
			}
			for _, value := range attr.Values {
				if v := strings.TrimSpace(value.Value); v != "" {
					return v
				}
				if value.DictionaryValueID != 0 {
					return strconv.FormatInt(value.DictionaryValueID, 10)
				}
			}
		}
	}
	return ""
}

func resolveVisibility(info ProductInfo) catalog.Visibility {
	visible := info.VisibilityDetails.Visible
	if visible == nil {
		visible = info.Visible
	}
	switch {
	case visible == nil:
		return catalog.VisibilityUnknown
	case *visible:
		return catalog.VisibilityVisible
	default:
		return catalog.VisibilityHidden
	}
}

// buildHiddenReasons concatenates the three independent reason arrays into
// one de-duplicated, capped human-readable string.
func buildHiddenReasons(info ProductInfo) string {
	var reasons []string
	seen := make(map[string]struct{})
	add := func(raw json.RawMessage) {
		if len(reasons) >= maxHiddenReasons {
			return
		}
		text := humanReason(raw)
		if text == "" {
			return
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		reasons = append(reasons, text)
	}
	for _, raw := range info.Statuses.DeclineReasons {
		add(raw)
	}
	for _, raw := range info.ItemErrors {
		add(raw)
	}
	for _, raw := range info.Errors {
		add(raw)
	}
	return strings.Join(reasons, "; ")
}

// humanReason renders one reason element, which may be a string, another
// primitive, or an object carrying a message/error field.
func humanReason(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"message", "error"} {
			var text string
			if field, ok := obj[key]; ok && json.Unmarshal(field, &text) == nil && text != "" {
				return strings.TrimSpace(text)
			}
		}
		return string(raw)
	}
	var prim any
	if err := json.Unmarshal(raw, &prim); err == nil && prim != nil {
		return fmt.Sprintf("%v", prim)
	}
	return ""
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func skuVariants(sources []ProductSource) string {
	variants := make([]string, 0, len(sources))
	for _, src := range sources {
		if id := catalog.ParseExternalIDJSON(src.SKU); id.Valid() {
			variants = append(variants, id.String())
		}
	}
	return strings.Join(variants, ",")
}

func primaryImage(info ProductInfo) string {
	var s string
	if err := json.Unmarshal(info.PrimaryImage, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(info.PrimaryImage, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	if len(info.Images) > 0 {
		return info.Images[0]
	}
	return ""
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func chunkInt64(ids []int64, size int) [][]int64 {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
