// Package offers stores the local projection of offer ownership.
package offers

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, o *models.OfferOwnership) error
	Delete(ctx context.Context, offerID string) error
	GetForOwner(ctx context.Context, offerID, userID string) (*models.OfferOwnership, error)
	LockForOwner(ctx context.Context, offerID, userID string) (*models.OfferOwnership, error)
}
