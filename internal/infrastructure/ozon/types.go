package ozon

import "encoding/json"

// Endpoint paths. Primary paths are tried first; legacy paths serve
// accounts still on the older API version and are reached only through the
// 404 fallback.
const (
	EndpointProductList             = "/v3/product/list"
	EndpointProductInfo             = "/v3/product/info/list"
	EndpointProductInfoLegacy       = "/v2/product/info/list"
	EndpointProductAttributes       = "/v4/product/info/attributes"
	EndpointProductAttributesLegacy = "/v3/products/info/attributes"
	EndpointWarehouseList           = "/v1/warehouse/list"
	EndpointPlacementZones          = "/v1/placement/zone/list"
	EndpointPostingList             = "/v3/posting/fbs/list"
	EndpointSellerInfo              = "/v2/seller/info"
	EndpointSellerInfoLegacy        = "/v1/seller/info"
)

// ProductListEntry is one base listing entry from the product list
// endpoint. ProductID arrives as a string on some accounts and a number on
// others, so it stays raw until coerced.
type ProductListEntry struct {
	OfferID   string          `json:"offer_id"`
	ProductID json.RawMessage `json:"product_id"`
	Archived  bool            `json:"archived"`
}

// ProductInfo is one extended-info item.
type ProductInfo struct {
	ID                json.RawMessage `json:"id"`
	OfferID           string          `json:"offer_id"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode"`
	Barcodes          []string        `json:"barcodes"`
	SKU               json.RawMessage `json:"sku"`
	Sources           []ProductSource `json:"sources"`
	PrimaryImage      json.RawMessage `json:"primary_image"`
	Images            []string        `json:"images"`
	CreatedAt         string          `json:"created_at"`
	Price             string          `json:"price"`
	OldPrice          string          `json:"old_price"`
	Visible           *bool           `json:"visible"`
	VisibilityDetails struct {
		Visible *bool             `json:"visible"`
		Reasons []json.RawMessage `json:"reasons"`
	} `json:"visibility_details"`
	Statuses struct {
		Status         string            `json:"status"`
		StatusName     string            `json:"status_name"`
		DeclineReasons []json.RawMessage `json:"decline_reasons"`
	} `json:"statuses"`
	ItemErrors []json.RawMessage `json:"item_errors"`
	Errors     []json.RawMessage `json:"errors"`
}

// ProductSource is one SKU variant of a product per fulfillment scheme.
type ProductSource struct {
	SKU    json.RawMessage `json:"sku"`
	Source string          `json:"source"`
}

// AttributeSet is one item of the attributes endpoint.
type AttributeSet struct {
	ID         json.RawMessage `json:"id"`
	Barcode    string          `json:"barcode"`
	CategoryID int64           `json:"description_category_id"`
	TypeID     int64           `json:"type_id"`
	Attributes []Attribute     `json:"attributes"`
}

// Attribute carries both the v4 ("id") and v3 ("attribute_id") key names.
type Attribute struct {
	ID          int64            `json:"id"`
	AttributeID int64            `json:"attribute_id"`
	Values      []AttributeValue `json:"values"`
}

// NumericID returns whichever attribute identifier field is set.
func (a Attribute) NumericID() int64 {
	if a.ID != 0 {
		return a.ID
	}
	return a.AttributeID
}

// AttributeValue is one value of an attribute.
type AttributeValue struct {
	Value             string `json:"value"`
	DictionaryValueID int64  `json:"dictionary_value_id"`
}

// Warehouse is one seller warehouse.
type Warehouse struct {
	WarehouseID json.RawMessage `json:"warehouse_id"`
	Name        string          `json:"name"`
}

// ZoneRow is one placement zone row.
type ZoneRow struct {
	WarehouseID json.RawMessage `json:"warehouse_id"`
	SKU         json.RawMessage `json:"sku"`
	SellerSKU   string          `json:"seller_sku"`
	OfferID     string          `json:"offer_id"`
	Zone        string          `json:"zone"`
}

// Posting is one order posting with its line items.
type Posting struct {
	PostingNumber string           `json:"posting_number"`
	Status        string           `json:"status"`
	InProcessAt   string           `json:"in_process_at"`
	Products      []PostingProduct `json:"products"`
	AnalyticsData struct {
		DeliveryDateBegin string `json:"delivery_date_begin"`
	} `json:"analytics_data"`
}

// PostingProduct is one line item of a posting.
type PostingProduct struct {
	SKU      json.RawMessage `json:"sku"`
	OfferID  string          `json:"offer_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    string          `json:"price"`
}

// ParsePostings extracts postings from a posting-list payload, tolerating
// the same shape drift as ParseEnvelope plus the {result:{postings: []}}
// form the endpoint actually documents.
func ParsePostings(payload []byte) []Posting {
	var wrapped struct {
		Result struct {
			Postings []Posting `json:"postings"`
		} `json:"result"`
		Postings []Posting `json:"postings"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil {
		if len(wrapped.Result.Postings) > 0 {
			return wrapped.Result.Postings
		}
		if len(wrapped.Postings) > 0 {
			return wrapped.Postings
		}
	}
	return DecodeItems[Posting](ParseEnvelope(payload))
}
