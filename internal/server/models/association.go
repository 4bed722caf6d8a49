package models

// Association links an asset to an offer. Orderings within one offer are
// 0-based and unique.
type Association struct {
	AssetID  string
	OfferID  string
	UserID   string
	Ordering int64
}
