// Package assets persists asset metadata records.
package assets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Asset) error
	Get(ctx context.Context, id string) (*models.Asset, error)
	GetForOwner(ctx context.Context, id, userID string) (*models.Asset, error)
	// LockForOwner reads the asset with a row lock; callers must be in a transaction.
	LockForOwner(ctx context.Context, id, userID string) (*models.Asset, error)
	AddSize(ctx context.Context, id string, delta int64) (*models.Asset, error)
	Update(ctx context.Context, id, userID string, upd models.AssetUpdate) (*models.Asset, error)
	Delete(ctx context.Context, id, userID string) error
	SumSizeForUser(ctx context.Context, userID string) (int64, error)
	List(ctx context.Context, shopID, userID string, page models.Page, filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error)
	ListAccessible(ctx context.Context, userID string, now time.Time, page models.Page, filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error)
}
