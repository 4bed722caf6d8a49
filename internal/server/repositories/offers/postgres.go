package offers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert replaces the whole record for o.OfferID.
func (r *PostgresRepository) Upsert(ctx context.Context, o *models.OfferOwnership) error {
	query := `
		INSERT INTO offers (offer_id, shop_id, user_id) VALUES ($1, $2, $3)
		ON CONFLICT (offer_id) DO UPDATE SET shop_id = EXCLUDED.shop_id, user_id = EXCLUDED.user_id
	`
	if _, err := r.db.ExecContext(ctx, query, o.OfferID, o.ShopID, o.UserID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete is a no-op for unknown offers.
func (r *PostgresRepository) Delete(ctx context.Context, offerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE offer_id = $1`, offerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetForOwner(ctx context.Context, offerID, userID string) (*models.OfferOwnership, error) {
	return r.get(ctx, `SELECT offer_id, shop_id, user_id FROM offers WHERE offer_id = $1 AND user_id = $2`, offerID, userID)
}

// LockForOwner is GetForOwner with a row lock. Attaching assets takes it so
// concurrent appends to one offer are serialized.
func (r *PostgresRepository) LockForOwner(ctx context.Context, offerID, userID string) (*models.OfferOwnership, error) {
	return r.get(ctx, `SELECT offer_id, shop_id, user_id FROM offers WHERE offer_id = $1 AND user_id = $2 FOR UPDATE`, offerID, userID)
}

func (r *PostgresRepository) get(ctx context.Context, query, offerID, userID string) (*models.OfferOwnership, error) {
	o := &models.OfferOwnership{}
	if err := r.db.QueryRowContext(ctx, query, offerID, userID).Scan(&o.OfferID, &o.ShopID, &o.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}
