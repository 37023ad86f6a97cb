package views

import (
	"context"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/infrastructure/ozon"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostingSource fetches order postings from the marketplace.
type PostingSource interface {
	StoreIdentity() string
	FetchPostings(ctx context.Context, since, to string) ([]ozon.Posting, error)
}

// ArchiveReader serves the last successfully archived payloads per endpoint.
type ArchiveReader interface {
	LatestPayloads(ctx context.Context, storeIdentity string, endpoints []string) (map[string][]byte, error)
}

// SalesService composes the sales view from live postings, falling back to
// the exchange archive when the marketplace is unreachable.
type SalesService struct {
	source  PostingSource
	archive ArchiveReader
	log     *zap.Logger
}

// NewSalesService creates a SalesService.
func NewSalesService(source PostingSource, archive ArchiveReader, log *zap.Logger) *SalesService {
	return &SalesService{
		source:  source,
		archive: archive,
		log:     log.Named("views.sales"),
	}
}

// SalesResult carries the composed rows plus how they were obtained.
type SalesResult struct {
	Rows        []catalog.SalesRow `json:"rows"`
	FromArchive bool               `json:"from_archive"`
}

// SalesByPosting returns one row per (posting, SKU) for the given period.
// since and to are ISO-8601 timestamps as the marketplace expects them.
func (s *SalesService) SalesByPosting(ctx context.Context, since, to string) (*SalesResult, error) {
	store := s.source.StoreIdentity()

	postings, err := s.source.FetchPostings(ctx, since, to)
	if err == nil {
		return &SalesResult{Rows: s.compose(store, postings)}, nil
	}
	s.log.Warn("live posting fetch failed, falling back to archive",
		zap.String("store", store),
		zap.Error(err))

	payloads, archiveErr := s.archive.LatestPayloads(ctx, store, []string{ozon.EndpointPostingList})
	if archiveErr != nil {
		return nil, archiveErr
	}
	payload, ok := payloads[ozon.EndpointPostingList]
	if !ok {
		// Nothing archived yet: the fetch failure is the real story.
		return nil, err
	}
	return &SalesResult{
		Rows:        s.compose(store, filterPeriod(ozon.ParsePostings(payload), since, to)),
		FromArchive: true,
	}, nil
}

// filterPeriod narrows archived postings to the requested period. Live
// fetches are already period-scoped by the marketplace; archived payloads
// carry whatever period the last successful sync asked for. Timestamps are
// compared as strings, which holds for the uniform format the marketplace
// emits. Postings without a timestamp are kept.
func filterPeriod(postings []ozon.Posting, since, to string) []ozon.Posting {
	out := postings[:0]
	for _, posting := range postings {
		if posting.InProcessAt != "" {
			if since != "" && posting.InProcessAt < since {
				continue
			}
			if to != "" && posting.InProcessAt > to {
				continue
			}
		}
		out = append(out, posting)
	}
	return out
}

// compose flattens postings into line-item rows, drops rows without a
// posting number, collapses duplicates and orders the result.
func (s *SalesService) compose(store string, postings []ozon.Posting) []catalog.SalesRow {
	rows := make([]catalog.SalesRow, 0, len(postings))
	for _, posting := range postings {
		if posting.PostingNumber == "" {
			continue
		}
		for _, product := range posting.Products {
			price, err := decimal.NewFromString(product.Price)
			if err != nil {
				price = decimal.Zero
			}
			rows = append(rows, catalog.SalesRow{
				StoreIdentity: store,
				PostingNumber: posting.PostingNumber,
				Status:        posting.Status,
				SKU:           catalog.ParseExternalIDJSON(product.SKU).Int64(),
				OfferID:       product.OfferID,
				Name:          product.Name,
				Quantity:      product.Quantity,
				Price:         price,
				InProcessAt:   posting.InProcessAt,
				DeliveryDate:  posting.AnalyticsData.DeliveryDateBegin,
			})
		}
	}
	rows = catalog.DedupSalesRows(rows)
	catalog.SortSalesRows(rows)
	return rows
}
