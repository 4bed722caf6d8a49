package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/accesscache"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
	"github.com/sethvargo/go-retry"
)

// Handler consumes one message. It never fails: problems are logged and the
// message is dropped.
type Handler func(ctx context.Context, subject string, payload []byte)

// Source delivers messages of one route to h until ctx is done.
type Source interface {
	Consume(ctx context.Context, route Route, h Handler) error
	Close() error
}

// Subscriber applies events to the fact tables. It is the only writer of
// shops, offers and subscriptions.
type Subscriber struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       accesscache.Cache
	metrics     *metrics.Metrics
	retry       retrySchedule
	log         logging.Logger
}

func NewSubscriber(db *sql.DB, m repomanager.RepositoryManager, cache accesscache.Cache,
	mt *metrics.Metrics, log logging.Logger) *Subscriber {
	if cache == nil {
		cache = accesscache.Nop{}
	}
	return &Subscriber{
		db:          db,
		repomanager: m,
		cache:       cache,
		metrics:     mt,
		retry:       defaultRetry,
		log:         log.With("module", "events"),
	}
}

// Run consumes every route from src, one loop per kind, until ctx is done.
// A loop whose Consume fails is restarted with backoff, so every kind keeps
// being consumed for the life of ctx.
func (s *Subscriber) Run(ctx context.Context, src Source) {
	var wg sync.WaitGroup
	for _, r := range Routes {
		wg.Add(1)
		go func(r Route) {
			defer wg.Done()
			s.consume(ctx, src, r)
		}(r)
	}
	wg.Wait()
}

func (s *Subscriber) consume(ctx context.Context, src Source, r Route) {
	log := s.log.With("kind", r.Kind, "subject", r.Subject, "queue", r.Queue)
	h := s.handlerFor(r.Kind)

	_ = retry.Do(ctx, s.retry.backoff(), func(ctx context.Context) error {
		log.Info(ctx, "subscribing")
		err := src.Consume(ctx, r, h)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		log.Error(ctx, "subscription failed, restarting", "error", err)
		s.metrics.RecordSourceFailure(string(r.Kind))
		return retry.RetryableError(err)
	})
}

func (s *Subscriber) handlerFor(kind Kind) Handler {
	return func(ctx context.Context, subject string, payload []byte) {
		s.Handle(ctx, kind, subject, payload)
	}
}

// Handle applies one event of kind. The action is the last segment of
// subject.
func (s *Subscriber) Handle(ctx context.Context, kind Kind, subject string, payload []byte) {
	action := ParseAction(subject)
	log := s.log.With("kind", kind, "subject", subject)

	if action != ActionUpsert && action != ActionDelete {
		log.Error(ctx, "unexpected action", "action", action)
		s.metrics.RecordEvent(string(kind), action, "dropped")
		return
	}

	id, err := s.apply(ctx, kind, action, payload)
	switch {
	case errors.Is(err, errDecode):
		log.Error(ctx, "could not decode message", "error", err)
		s.metrics.RecordEvent(string(kind), action, "invalid")
	case err != nil:
		log.Error(ctx, "could not apply message", "action", action, "id", id, "error", err)
		s.metrics.RecordEvent(string(kind), action, "failed")
	default:
		log.Info(ctx, "event applied", "action", action, "id", id)
		s.metrics.RecordEvent(string(kind), action, "ok")
	}
}

// apply returns the id of the affected fact.
func (s *Subscriber) apply(ctx context.Context, kind Kind, action string, payload []byte) (string, error) {
	switch kind {
	case KindShop:
		sh, err := DecodeShop(payload)
		if err != nil {
			return "", err
		}
		repo := s.repomanager.Shops(s.db)
		if action == ActionDelete {
			return sh.ShopID, repo.Delete(ctx, sh.ShopID)
		}
		return sh.ShopID, repo.Upsert(ctx, sh)

	case KindOffer:
		o, err := DecodeOffer(payload)
		if err != nil {
			return "", err
		}
		repo := s.repomanager.Offers(s.db)
		if action == ActionDelete {
			return o.OfferID, repo.Delete(ctx, o.OfferID)
		}
		return o.OfferID, repo.Upsert(ctx, o)

	case KindSubscription:
		sub, err := DecodeSubscription(payload)
		if err != nil {
			return "", err
		}
		repo := s.repomanager.Subscriptions(s.db)
		if action == ActionDelete {
			err = repo.Delete(ctx, sub.ID)
		} else {
			err = repo.Upsert(ctx, sub)
		}
		if err != nil {
			return sub.ID, err
		}
		if err := s.cache.Invalidate(ctx, sub.BuyerUserID, sub.OfferID); err != nil {
			s.log.Warn(ctx, "access cache invalidation failed", "subscription_id", sub.ID, "error", err)
		}
		return sub.ID, nil
	}
	return "", fmt.Errorf("unknown kind %q", kind)
}
