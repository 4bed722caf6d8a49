package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/accesscache"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
)

// AccessService answers subscription questions from the local projection of
// payment events. Decisions may be stale by up to the access-cache TTL.
type AccessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       accesscache.Cache
	maxAge      time.Duration
	log         logging.Logger
	now         func() time.Time
}

// NewAccessService trusts cached snapshots for at most maxAge, normally the
// cache TTL. Older snapshots, such as ones written by a replica with a longer
// TTL, are re-read from the database.
func NewAccessService(db *sql.DB, m repomanager.RepositoryManager, cache accesscache.Cache,
	maxAge time.Duration, log logging.Logger) *AccessService {
	if cache == nil {
		cache = accesscache.Nop{}
	}
	return &AccessService{
		db:          db,
		repomanager: m,
		cache:       cache,
		maxAge:      maxAge,
		log:         log.With("module", "access"),
		now:         time.Now,
	}
}

// CheckOfferAccess reports whether userID holds a subscription to offerID
// with payed_until >= now. A cache failure falls back to the database.
func (s *AccessService) CheckOfferAccess(ctx context.Context, userID, offerID string) (bool, error) {
	now := s.now()

	snap, err := s.cache.Get(ctx, userID, offerID)
	if err != nil {
		s.log.Warn(ctx, "access cache read failed", "error", err)
	}
	if snap != nil {
		age := now.Sub(snap.CachedAt)
		if snap.Fresh(now, s.maxAge) {
			s.log.Debug(ctx, "access snapshot hit", "user_id", userID, "offer_id", offerID, "age", age)
			return snap.Allows(now), nil
		}
		s.log.Debug(ctx, "access snapshot stale", "user_id", userID, "offer_id", offerID, "age", age)
	}

	snap = &accesscache.Snapshot{CachedAt: now}
	sub, err := s.repomanager.Subscriptions(s.db).GetActive(ctx, userID, offerID, now)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return false, fmt.Errorf("get active subscription: %w", err)
	default:
		until := sub.PayedUntil
		snap.PayedUntil = &until
	}

	if err := s.cache.Put(ctx, userID, offerID, snap); err != nil {
		s.log.Warn(ctx, "access cache write failed", "error", err)
	}
	return snap.Allows(now), nil
}

// GetSubscription returns one of the buyer's subscriptions.
func (s *AccessService) GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error) {
	if err := requireUUID("subscription_id", id); err != nil {
		return nil, err
	}
	return s.repomanager.Subscriptions(s.db).Get(ctx, id, userID)
}

// ListSubscriptions lists the buyer's subscriptions, optionally limited to
// one shop.
func (s *AccessService) ListSubscriptions(ctx context.Context, userID, shopID string, page *models.Page) ([]*models.Subscription, *models.Pagination, error) {
	if shopID != "" {
		if err := requireUUID("shop_id", shopID); err != nil {
			return nil, nil, err
		}
	}
	p, err := resolvePage(page)
	if err != nil {
		return nil, nil, err
	}

	subs, total, err := s.repomanager.Subscriptions(s.db).List(ctx, userID, shopID, p)
	if err != nil {
		return nil, nil, err
	}
	return subs, &models.Pagination{Page: p.Page, Size: p.Size, TotalCount: total}, nil
}
