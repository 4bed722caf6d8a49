// Package shops stores the local projection of shop ownership.
package shops

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, s *models.ShopOwnership) error
	Delete(ctx context.Context, shopID string) error
	GetForOwner(ctx context.Context, shopID, userID string) (*models.ShopOwnership, error)
}
