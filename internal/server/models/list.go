package models

const DefaultPageSize = 100

// Page is a 1-based page request.
type Page struct {
	Page int64
	Size int64
}

// Limit and Offset translate the page into SQL bounds.
func (p Page) Limit() int64  { return p.Size }
func (p Page) Offset() int64 { return (p.Page - 1) * p.Size }

// Pagination echoes the page together with the total number of rows.
type Pagination struct {
	Page       int64
	Size       int64
	TotalCount int64
}

// AssetFilterField selects the column an AssetFilter matches on.
type AssetFilterField int

const (
	AssetFilterNone AssetFilterField = iota
	AssetFilterName
	AssetFilterOfferID
)

type AssetFilter struct {
	Field AssetFilterField
	Query string
}

// AssetOrderField selects the list sort column.
type AssetOrderField int

const (
	AssetOrderCreatedAt AssetOrderField = iota
	AssetOrderUpdatedAt
	AssetOrderOrdering
)

type AssetOrder struct {
	Field      AssetOrderField
	Descending bool
}
