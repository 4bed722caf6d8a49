// Package quotas persists per-user storage ceilings.
package quotas

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.Quota, error)
	// Ensure returns the user's quota, creating it with defaultMaxBytes when absent.
	Ensure(ctx context.Context, userID string, defaultMaxBytes int64) (*models.Quota, error)
}
