package associations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

// PostgresRepository implements association storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) LockForOffer(ctx context.Context, offerID string) ([]*models.Association, error) {
	query := `
		SELECT asset_id, offer_id, user_id, ordering FROM asset_offers
		WHERE offer_id = $1
		ORDER BY ordering
		FOR UPDATE
	`
	rows, err := r.db.QueryContext(ctx, query, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select associations: %w", err)
	}
	defer rows.Close()

	var result []*models.Association
	for rows.Next() {
		var a models.Association
		if err := rows.Scan(&a.AssetID, &a.OfferID, &a.UserID, &a.Ordering); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts the association. An existing (asset, offer) pair yields
// common.ErrAlreadyExists; an unknown asset yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Association) error {
	query := `INSERT INTO asset_offers (asset_id, offer_id, user_id, ordering) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, a.AssetID, a.OfferID, a.UserID, a.Ordering); err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return common.ErrAlreadyExists
		case dbx.IsForeignKeyViolation(err):
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetOrdering(ctx context.Context, assetID, offerID string, ordering int64) error {
	query := `UPDATE asset_offers SET ordering = $3 WHERE asset_id = $1 AND offer_id = $2`
	res, err := r.db.ExecContext(ctx, query, assetID, offerID, ordering)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ShiftRange(ctx context.Context, offerID string, from, to, delta int64, excludeAssetID string) (int64, error) {
	query := `
		UPDATE asset_offers SET ordering = ordering + $4
		WHERE offer_id = $1 AND ordering BETWEEN $2 AND $3 AND asset_id::text <> $5
	`
	res, err := r.db.ExecContext(ctx, query, offerID, from, to, delta, excludeAssetID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// Delete removes the association owned by userID; remaining orderings are
// left as they are.
func (r *PostgresRepository) Delete(ctx context.Context, assetID, offerID, userID string) error {
	query := `DELETE FROM asset_offers WHERE asset_id = $1 AND offer_id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, query, assetID, offerID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
