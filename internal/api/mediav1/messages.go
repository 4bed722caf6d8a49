// Package mediav1 is the wire contract of the media service: request and
// response messages, the service descriptor and a client.
package mediav1

// Timestamps are unix seconds.

type Asset struct {
	AssetID   string   `json:"asset_id"`
	OfferIDs  []string `json:"offer_ids"`
	ShopID    string   `json:"shop_id"`
	UserID    string   `json:"user_id"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
	Name      string   `json:"name"`
	FileName  string   `json:"file_name"`
	SizeBytes int64    `json:"size_bytes"`
}

// Upload is an inline file; Data travels base64 encoded.
type Upload struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Page requests a 1-based page. A missing page means page 1 of 100.
type Page struct {
	Page int64 `json:"page"`
	Size int64 `json:"size"`
}

type Pagination struct {
	Page       int64 `json:"page"`
	Size       int64 `json:"size"`
	TotalCount int64 `json:"total_count"`
}

type OrderByField int32

const (
	OrderByFieldUnspecified OrderByField = iota
	OrderByFieldCreatedAt
	OrderByFieldUpdatedAt
	OrderByFieldOrdering
)

type Direction int32

const (
	DirectionUnspecified Direction = iota
	DirectionAsc
	DirectionDesc
)

type OrderBy struct {
	Field     OrderByField `json:"field"`
	Direction Direction    `json:"direction"`
}

type FilterField int32

const (
	FilterFieldUnspecified FilterField = iota
	FilterFieldName
	FilterFieldOfferID
)

type Filter struct {
	Field FilterField `json:"field"`
	Query string      `json:"query"`
}

type CreateAssetRequest struct {
	ShopID   string  `json:"shop_id"`
	Name     string  `json:"name"`
	File     *Upload `json:"file,omitempty"`
	FileName string  `json:"file_name"`
}

type CreateAssetResponse struct {
	Asset *Asset `json:"asset"`
}

type GetAssetRequest struct {
	AssetID string `json:"asset_id"`
}

type GetAssetResponse struct {
	Asset *Asset `json:"asset"`
}

type ListAssetsRequest struct {
	ShopID     string   `json:"shop_id"`
	Pagination *Page    `json:"pagination,omitempty"`
	OrderBy    *OrderBy `json:"order_by,omitempty"`
	Filter     *Filter  `json:"filter,omitempty"`
}

type ListAssetsResponse struct {
	Assets     []*Asset    `json:"assets"`
	Pagination *Pagination `json:"pagination"`
}

type UpdateAssetRequest struct {
	AssetID  string  `json:"asset_id"`
	Name     *string `json:"name,omitempty"`
	File     *Upload `json:"file,omitempty"`
	FileName *string `json:"file_name,omitempty"`
}

type UpdateAssetResponse struct {
	Asset *Asset `json:"asset"`
}

type DeleteAssetRequest struct {
	AssetID string `json:"asset_id"`
}

type DeleteAssetResponse struct{}

type DownloadAssetRequest struct {
	AssetID string `json:"asset_id"`
}

type DownloadAssetResponse struct {
	DownloadURL string `json:"download_url"`
}

type ListAccessibleAssetsRequest struct {
	Pagination *Page    `json:"pagination,omitempty"`
	OrderBy    *OrderBy `json:"order_by,omitempty"`
	Filter     *Filter  `json:"filter,omitempty"`
}

type ListAccessibleAssetsResponse struct {
	Assets     []*Asset    `json:"assets"`
	Pagination *Pagination `json:"pagination"`
}

type InitiateMultipartUploadRequest struct {
	AssetID     string `json:"asset_id"`
	ContentType string `json:"content_type"`
}

type InitiateMultipartUploadResponse struct {
	Key      string `json:"key"`
	UploadID string `json:"upload_id"`
}

type Part struct {
	PartNumber int32  `json:"part_number"`
	ETag       string `json:"etag"`
}

type PutMultipartChunkRequest struct {
	AssetID    string `json:"asset_id"`
	UploadID   string `json:"upload_id"`
	PartNumber int32  `json:"part_number"`
	Chunk      []byte `json:"chunk"`
}

type PutMultipartChunkResponse struct {
	Part *Part `json:"part"`
}

type CompleteMultipartUploadRequest struct {
	AssetID  string  `json:"asset_id"`
	UploadID string  `json:"upload_id"`
	Parts    []*Part `json:"parts"`
}

type CompleteMultipartUploadResponse struct{}

type AddAssetToOfferRequest struct {
	AssetID string `json:"asset_id"`
	OfferID string `json:"offer_id"`
	// Ordering is optional; without it the asset is appended.
	Ordering *int64 `json:"ordering,omitempty"`
}

type AddAssetToOfferResponse struct {
	Ordering int64 `json:"ordering"`
}

type UpdateAssetOfferOrderingRequest struct {
	AssetID  string `json:"asset_id"`
	OfferID  string `json:"offer_id"`
	Ordering int64  `json:"ordering"`
}

type UpdateAssetOfferOrderingResponse struct{}

type RemoveAssetFromOfferRequest struct {
	AssetID string `json:"asset_id"`
	OfferID string `json:"offer_id"`
}

type RemoveAssetFromOfferResponse struct{}

type CheckQuotaRequest struct{}

type CheckQuotaResponse struct{}

type GetQuotaUsageRequest struct{}

type GetQuotaUsageResponse struct {
	UsedBytes int64 `json:"used_bytes"`
	MaxBytes  int64 `json:"max_bytes"`
}

type Subscription struct {
	SubscriptionID       string  `json:"subscription_id"`
	BuyerUserID          string  `json:"buyer_user_id"`
	OfferID              string  `json:"offer_id"`
	ShopID               string  `json:"shop_id"`
	CurrentPeriodStart   int64   `json:"current_period_start"`
	CurrentPeriodEnd     int64   `json:"current_period_end"`
	SubscriptionStatus   string  `json:"subscription_status"`
	PayedAt              int64   `json:"payed_at"`
	PayedUntil           int64   `json:"payed_until"`
	StripeSubscriptionID *string `json:"stripe_subscription_id,omitempty"`
	CanceledAt           *int64  `json:"canceled_at,omitempty"`
	CancelAt             *int64  `json:"cancel_at,omitempty"`
}

type GetSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

type GetSubscriptionResponse struct {
	Subscription *Subscription `json:"subscription"`
}

type ListSubscriptionsRequest struct {
	// ShopID optionally narrows the list to one shop.
	ShopID     string `json:"shop_id,omitempty"`
	Pagination *Page  `json:"pagination,omitempty"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []*Subscription `json:"subscriptions"`
	Pagination    *Pagination     `json:"pagination"`
}
