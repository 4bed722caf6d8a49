// Package storage talks to the object store holding asset bytes.
package storage

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

// ObjectStore is durable blob storage keyed by path. Implementations wrap
// every failure with common.ErrTransient.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	// PresignGet returns a time-limited download URL that saves as fileName.
	PresignGet(ctx context.Context, key, fileName string) (string, error)
	Delete(ctx context.Context, key string) error

	InitiateMultipart(ctx context.Context, key, contentType string) (string, error)
	UploadPart(ctx context.Context, key, uploadID string, partNumber int32, data []byte) (string, error)
	CompleteMultipart(ctx context.Context, key, uploadID string, parts []models.PartTag) error
	AbortMultipart(ctx context.Context, key, uploadID string) error
}
