// Package models defines server-side data models persisted in the database.
package models

import "time"

// Asset is a stored binary object plus its metadata record.
type Asset struct {
	ID        string
	ShopID    string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	// StorageKey is the object-store key, "{user}/{shop}/{asset}".
	StorageKey string
	// SizeBytes is the number of bytes written under StorageKey.
	SizeBytes int64
	FileName  string
	// OfferIDs lists the offers the asset is attached to (read paths only).
	OfferIDs []string
}

// Upload is an inline object payload.
type Upload struct {
	ContentType string
	Data        []byte
}

// AssetUpdate carries optional changes; nil fields are left untouched.
type AssetUpdate struct {
	Name      *string
	FileName  *string
	SizeBytes *int64
}

// PartTag identifies one uploaded part of a multipart upload.
type PartTag struct {
	PartNumber int32
	ETag       string
}

// MultipartUpload is returned when a multipart upload is initiated.
type MultipartUpload struct {
	Key      string
	UploadID string
}
