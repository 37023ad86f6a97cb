package ozon

import (
	"context"
	"encoding/json"
	"net/http"
)

type productListRequest struct {
	Filter struct {
		Visibility string `json:"visibility"`
	} `json:"filter"`
	LastID string `json:"last_id"`
	Limit  int    `json:"limit"`
}

// ProductListPage fetches one page of the base product listing.
func (c *Client) ProductListPage(ctx context.Context, cursor string, limit int) (Page, error) {
	req := productListRequest{LastID: cursor, Limit: limit}
	req.Filter.Visibility = "ALL"

	env, err := c.Call(ctx, http.MethodPost, EndpointProductList, req)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: env.Items, NextCursor: env.LastID, Total: env.Total}, nil
}

type productInfoRequest struct {
	ProductID []int64 `json:"product_id"`
}

// ProductInfoList fetches extended info for a chunk of product IDs, falling
// back to the legacy path on 404.
func (c *Client) ProductInfoList(ctx context.Context, ids []int64) ([]ProductInfo, error) {
	env, err := c.CallWithFallback(ctx, http.MethodPost,
		EndpointProductInfo, EndpointProductInfoLegacy,
		productInfoRequest{ProductID: ids})
	if err != nil {
		return nil, err
	}
	return DecodeItems[ProductInfo](env), nil
}

type productAttributesRequest struct {
	Filter struct {
		ProductID []int64 `json:"product_id"`
	} `json:"filter"`
	Limit int `json:"limit"`
}

// ProductAttributes fetches attributes for a chunk of product IDs, falling
// back to the legacy path on 404.
func (c *Client) ProductAttributes(ctx context.Context, ids []int64) ([]AttributeSet, error) {
	var req productAttributesRequest
	req.Filter.ProductID = ids
	req.Limit = len(ids)

	env, err := c.CallWithFallback(ctx, http.MethodPost,
		EndpointProductAttributes, EndpointProductAttributesLegacy, req)
	if err != nil {
		return nil, err
	}
	return DecodeItems[AttributeSet](env), nil
}

// WarehouseList fetches the seller's warehouses.
func (c *Client) WarehouseList(ctx context.Context) ([]Warehouse, error) {
	env, err := c.Call(ctx, http.MethodPost, EndpointWarehouseList, struct{}{})
	if err != nil {
		return nil, err
	}
	return DecodeItems[Warehouse](env), nil
}

type placementZoneRequest struct {
	WarehouseID int64    `json:"warehouse_id"`
	SKU         []int64  `json:"sku,omitempty"`
	SellerSKU   []string `json:"offer_id,omitempty"`
}

// PlacementZonesBySKU fetches placement zones for marketplace SKUs.
func (c *Client) PlacementZonesBySKU(ctx context.Context, warehouseID int64, skus []int64) ([]ZoneRow, error) {
	env, err := c.Call(ctx, http.MethodPost, EndpointPlacementZones,
		placementZoneRequest{WarehouseID: warehouseID, SKU: skus})
	if err != nil {
		return nil, err
	}
	return DecodeItems[ZoneRow](env), nil
}

// PlacementZonesBySellerSKU fetches placement zones for seller SKUs. Some
// accounts resolve zones only through this identifier space.
func (c *Client) PlacementZonesBySellerSKU(ctx context.Context, warehouseID int64, sellerSKUs []string) ([]ZoneRow, error) {
	env, err := c.Call(ctx, http.MethodPost, EndpointPlacementZones,
		placementZoneRequest{WarehouseID: warehouseID, SellerSKU: sellerSKUs})
	if err != nil {
		return nil, err
	}
	return DecodeItems[ZoneRow](env), nil
}

type postingListRequest struct {
	Filter struct {
		Since string `json:"since,omitempty"`
		To    string `json:"to,omitempty"`
	} `json:"filter"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	With   struct {
		AnalyticsData bool `json:"analytics_data"`
	} `json:"with"`
}

type postingListResponse struct {
	Result struct {
		Postings []Posting `json:"postings"`
		HasNext  bool      `json:"has_next"`
	} `json:"result"`
}

// PostingListPage fetches one offset page of postings.
func (c *Client) PostingListPage(ctx context.Context, since, to string, offset, limit int) ([]Posting, bool, error) {
	req := postingListRequest{Limit: limit, Offset: offset}
	req.Filter.Since = since
	req.Filter.To = to
	req.With.AnalyticsData = true

	env, err := c.Call(ctx, http.MethodPost, EndpointPostingList, req)
	if err != nil {
		return nil, false, err
	}

	var resp postingListResponse
	if err := json.Unmarshal(env.Raw, &resp); err == nil && len(resp.Result.Postings) > 0 {
		return resp.Result.Postings, resp.Result.HasNext, nil
	}
	return ParsePostings(env.Raw), false, nil
}

type sellerInfoResponse struct {
	Name   string `json:"name"`
	Result struct {
		Name        string `json:"name"`
		CompanyName string `json:"company_name"`
	} `json:"result"`
}

// SellerInfo resolves the seller display name, falling back to the legacy
// path on 404.
func (c *Client) SellerInfo(ctx context.Context) (string, error) {
	env, err := c.CallWithFallback(ctx, http.MethodPost,
		EndpointSellerInfo, EndpointSellerInfoLegacy, struct{}{})
	if err != nil {
		return "", err
	}

	var resp sellerInfoResponse
	if err := json.Unmarshal(env.Raw, &resp); err != nil {
		return "", nil
	}
	switch {
	case resp.Result.Name != "":
		return resp.Result.Name, nil
	case resp.Result.CompanyName != "":
		return resp.Result.CompanyName, nil
	default:
		return resp.Name, nil
	}
}
