package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
)

// shift moves every ordering in [From, To] by Delta.
type shift struct {
	From, To, Delta int64
}

type insertPlan struct {
	Ordering int64
	Shift    *shift
}

type reorderPlan struct {
	Old, New int64
	Shift    *shift
}

func (p reorderPlan) noop() bool { return p.Old == p.New }

// maxOrdering returns the highest ordering in current, or -1 when empty.
// current must be sorted by ordering.
func maxOrdering(current []*models.Association) int64 {
	if len(current) == 0 {
		return -1
	}
	return current[len(current)-1].Ordering
}

// planInsert places a new association. Without a requested position it
// appends after the highest ordering. A requested position shifts the
// associations at and after it up by one and is clamped to the end.
func planInsert(current []*models.Association, assetID string, requested *int64) (insertPlan, error) {
	for _, a := range current {
		if a.AssetID == assetID {
			return insertPlan{}, common.ErrAlreadyExists
		}
	}

	next := maxOrdering(current) + 1
	if requested == nil {
		return insertPlan{Ordering: next}, nil
	}

	pos := *requested
	if pos < 0 {
		return insertPlan{}, invalid("ordering")
	}
	if pos >= next {
		return insertPlan{Ordering: next}, nil
	}
	return insertPlan{Ordering: pos, Shift: &shift{From: pos, To: next - 1, Delta: 1}}, nil
}

// planReorder moves assetID to target. Moving towards the end decrements
// (old, new]; moving towards the start increments [new, old).
func planReorder(current []*models.Association, assetID string, target int64) (reorderPlan, error) {
	var found *models.Association
	for _, a := range current {
		if a.AssetID == assetID {
			found = a
			break
		}
	}
	if found == nil {
		return reorderPlan{}, common.ErrorNotFound
	}
	if target < 0 || target > maxOrdering(current) {
		return reorderPlan{}, invalid("ordering")
	}

	p := reorderPlan{Old: found.Ordering, New: target}
	switch {
	case target > p.Old:
		p.Shift = &shift{From: p.Old + 1, To: target, Delta: -1}
	case target < p.Old:
		p.Shift = &shift{From: target, To: p.Old - 1, Delta: 1}
	}
	return p, nil
}

// OrderingService keeps the per-offer ordering of attached assets dense and
// unique. Every mutation runs in one transaction holding row locks on the
// offer's associations.
type OrderingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics
	log         logging.Logger
}

func NewOrderingService(db *sql.DB, m repomanager.RepositoryManager, mt *metrics.Metrics, log logging.Logger) *OrderingService {
	return &OrderingService{
		db:          db,
		repomanager: m,
		metrics:     mt,
		log:         log.With("module", "ordering"),
	}
}

// Attach links an asset to an offer, both owned by userID.
func (s *OrderingService) Attach(ctx context.Context, userID, assetID, offerID string, ordering *int64) (int64, error) {
	if err := requireUUID("asset_id", assetID); err != nil {
		return 0, err
	}
	if err := requireUUID("offer_id", offerID); err != nil {
		return 0, err
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		if _, err := s.repomanager.Offers(tx).LockForOwner(ctx, offerID, userID); err != nil {
			return 0, fmt.Errorf("offer %s: %w", offerID, err)
		}
		if _, err := s.repomanager.Assets(tx).GetForOwner(ctx, assetID, userID); err != nil {
			return 0, fmt.Errorf("asset %s: %w", assetID, err)
		}

		repo := s.repomanager.Associations(tx)
		current, err := repo.LockForOffer(ctx, offerID)
		if err != nil {
			return 0, err
		}

		plan, err := planInsert(current, assetID, ordering)
		if err != nil {
			return 0, err
		}
		if plan.Shift != nil {
			if _, err := repo.ShiftRange(ctx, offerID, plan.Shift.From, plan.Shift.To, plan.Shift.Delta, ""); err != nil {
				return 0, err
			}
		}

		err = repo.Create(ctx, &models.Association{
			AssetID:  assetID,
			OfferID:  offerID,
			UserID:   userID,
			Ordering: plan.Ordering,
		})
		if err != nil {
			return 0, err
		}
		return plan.Ordering, nil
	})
}

// Reorder moves an attached asset to newOrdering within its offer.
func (s *OrderingService) Reorder(ctx context.Context, userID, assetID, offerID string, newOrdering int64) error {
	if err := requireUUID("asset_id", assetID); err != nil {
		return err
	}
	if err := requireUUID("offer_id", offerID); err != nil {
		return err
	}

	var moved bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Associations(tx)
		current, err := repo.LockForOffer(ctx, offerID)
		if err != nil {
			return err
		}
		for _, a := range current {
			if a.AssetID == assetID && a.UserID != userID {
				return common.ErrorNotFound
			}
		}

		plan, err := planReorder(current, assetID, newOrdering)
		if err != nil {
			return err
		}
		if plan.noop() {
			return nil
		}

		if _, err := repo.ShiftRange(ctx, offerID, plan.Shift.From, plan.Shift.To, plan.Shift.Delta, assetID); err != nil {
			return err
		}
		if err := repo.SetOrdering(ctx, assetID, offerID, plan.New); err != nil {
			return err
		}
		moved = true
		return nil
	})
	if err != nil {
		return err
	}

	if moved {
		s.metrics.RecordReorder()
		s.log.Debug(ctx, "asset reordered", "asset_id", assetID, "offer_id", offerID, "ordering", newOrdering)
	}
	return nil
}

// Detach removes the association. Orderings of the remaining assets are not
// compacted.
func (s *OrderingService) Detach(ctx context.Context, userID, assetID, offerID string) error {
	if err := requireUUID("asset_id", assetID); err != nil {
		return err
	}
	if err := requireUUID("offer_id", offerID); err != nil {
		return err
	}
	return s.repomanager.Associations(s.db).Delete(ctx, assetID, offerID, userID)
}
