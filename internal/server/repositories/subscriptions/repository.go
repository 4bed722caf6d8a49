// Package subscriptions stores the local projection of buyer subscriptions.
package subscriptions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, s *models.Subscription) error
	Delete(ctx context.Context, id string) error
	// GetActive returns the buyer's subscription to offerID with payed_until >= now.
	GetActive(ctx context.Context, buyerUserID, offerID string, now time.Time) (*models.Subscription, error)
	Get(ctx context.Context, id, buyerUserID string) (*models.Subscription, error)
	List(ctx context.Context, buyerUserID, shopID string, page models.Page) ([]*models.Subscription, int64, error)
}
