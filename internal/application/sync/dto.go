package sync

// CredentialCheckResult is the outcome of a credential check run.
type CredentialCheckResult struct {
	OK          bool   `json:"ok"`
	DisplayName string `json:"resolved_display_name,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CatalogSyncResult is the outcome of a full catalog sync run.
type CatalogSyncResult struct {
	OK                bool   `json:"ok"`
	ItemCount         int    `json:"item_count"`
	AddedCount        int    `json:"added_count"`
	PageCount         int    `json:"page_count"`
	PlacementRowCount int    `json:"placement_row_count"`
	PlacementWarning  string `json:"placement_warning,omitempty"`
	Error             string `json:"error,omitempty"`
}

type runMeta struct {
	Pages            int    `json:"pages"`
	Added            int    `json:"added"`
	PlacementRows    int    `json:"placement_rows"`
	PlacementKept    bool   `json:"placement_kept"`
	PlacementWarning string `json:"placement_warning,omitempty"`
}
