package ozon

import (
	"context"
	"strconv"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Gateway bundles the client, merger and placement fetcher behind the
// operations a sync run needs.
type Gateway struct {
	client    *Client
	merger    *Merger
	placement *PlacementFetcher
	cfg       *config.OzonConfig
	log       *zap.Logger
}

// NewGateway creates a Gateway for one credential pair.
func NewGateway(cfg *config.OzonConfig, cred Credential, recorder Recorder, log *zap.Logger) *Gateway {
	client := NewClient(cfg, cred, recorder, log)
	return &Gateway{
		client:    client,
		merger:    NewMerger(client, cfg.ChunkSize, log),
		placement: NewPlacementFetcher(client, cfg.ChunkSize, log),
		cfg:       cfg,
		log:       log.Named("gateway"),
	}
}

// StoreIdentity returns the identity scoping this gateway's data.
func (g *Gateway) StoreIdentity() string {
	return g.client.StoreIdentity()
}

// SellerInfo resolves the seller display name.
func (g *Gateway) SellerInfo(ctx context.Context) (string, error) {
	return g.client.SellerInfo(ctx)
}

// FetchCatalog paginates the full base listing and enriches it into catalog
// items, returning the items and the page count.
func (g *Gateway) FetchCatalog(ctx context.Context) ([]catalog.Item, int, error) {
	raw, pages, err := Paginate(ctx, g.cfg.MaxPages, func(ctx context.Context, cursor string) (Page, error) {
		return g.client.ProductListPage(ctx, cursor, g.cfg.PageLimit)
	})
	if err != nil {
		return nil, pages, err
	}

	entries := DecodeItems[ProductListEntry](&Envelope{Items: raw})

	items, err := g.merger.Enrich(ctx, entries)
	if err != nil {
		return nil, pages, err
	}
	return items, pages, nil
}

// FetchPlacements resolves the placement snapshot for the given items.
func (g *Gateway) FetchPlacements(ctx context.Context, items []catalog.Item) ([]catalog.Placement, error) {
	return g.placement.Fetch(ctx, items)
}

// FetchPostings pulls all postings in the period, driving the offset-based
// endpoint through the shared paginator.
func (g *Gateway) FetchPostings(ctx context.Context, since, to string) ([]Posting, error) {
	var postings []Posting
	_, _, err := Paginate(ctx, g.cfg.MaxPages, func(ctx context.Context, cursor string) (Page, error) {
		offset := 0
		if cursor != "" {
			parsed, err := strconv.Atoi(cursor)
			if err != nil {
				return Page{}, err
			}
			offset = parsed
		}
		page, hasNext, err := g.client.PostingListPage(ctx, since, to, offset, g.cfg.PageLimit)
		if err != nil {
			return Page{}, err
		}
		postings = append(postings, page...)
		next := ""
		if hasNext && len(page) > 0 {
			next = strconv.Itoa(offset + len(page))
		}
		return Page{NextCursor: next}, nil
	})
	if err != nil {
		return nil, err
	}
	return postings, nil
}
