// Package associations persists asset <-> offer links and their orderings.
package associations

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	// LockForOffer returns every association of offerID ordered by ordering,
	// holding row locks until the surrounding transaction ends.
	LockForOffer(ctx context.Context, offerID string) ([]*models.Association, error)
	Create(ctx context.Context, a *models.Association) error
	SetOrdering(ctx context.Context, assetID, offerID string, ordering int64) error
	// ShiftRange adds delta to orderings in [from, to] except for excludeAssetID
	// (pass "" to shift every row in range).
	ShiftRange(ctx context.Context, offerID string, from, to, delta int64, excludeAssetID string) (int64, error)
	Delete(ctx context.Context, assetID, offerID, userID string) error
}
