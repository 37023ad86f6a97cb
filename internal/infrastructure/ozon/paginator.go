package ozon

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrPageLimitExceeded signals that pagination hit the iteration ceiling.
// The ceiling is a guard against API cursor regressions; reaching it aborts
// the sync rather than looping forever.
var ErrPageLimitExceeded = errors.New("ozon: pagination iteration ceiling reached")

// Page is one fetched page of a cursor-paginated list endpoint.
type Page struct {
	Items      []json.RawMessage
	NextCursor string
	// Total is the remote's reported total, zero when not reported.
	Total int
}

// FetchPageFunc fetches the page at the given cursor; the first call
// receives an empty cursor.
type FetchPageFunc func(ctx context.Context, cursor string) (Page, error)

// Paginate drives cursor iteration to completion. It stops when the next
// cursor is empty or unchanged, or when the running count reaches the
// reported total (the platform's documented early-exit signal, which can
// arrive with a cursor still set). Pages are fetched strictly one at a
// time; later cursors depend on earlier responses.
func Paginate(ctx context.Context, maxPages int, fetch FetchPageFunc) ([]json.RawMessage, int, error) {
	var items []json.RawMessage
	cursor := ""
	pages := 0
	for {
		if pages >= maxPages {
			return nil, pages, ErrPageLimitExceeded
		}
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, pages, err
		}
		pages++
		items = append(items, page.Items...)

		if page.Total > 0 && len(items) >= page.Total {
			return items, pages, nil
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return items, pages, nil
		}
		cursor = page.NextCursor
	}
}
