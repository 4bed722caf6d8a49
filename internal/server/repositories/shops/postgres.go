package shops

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

// Upsert replaces the whole record for s.ShopID.
func (r *PostgresRepository) Upsert(ctx context.Context, s *models.ShopOwnership) error {
	query := `
		INSERT INTO shops (shop_id, user_id) VALUES ($1, $2)
		ON CONFLICT (shop_id) DO UPDATE SET user_id = EXCLUDED.user_id
	`
	if _, err := r.db.ExecContext(ctx, query, s.ShopID, s.UserID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete is a no-op for unknown shops.
func (r *PostgresRepository) Delete(ctx context.Context, shopID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE shop_id = $1`, shopID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetForOwner(ctx context.Context, shopID, userID string) (*models.ShopOwnership, error) {
	query := `SELECT shop_id, user_id FROM shops WHERE shop_id = $1 AND user_id = $2`
	s := &models.ShopOwnership{}
	if err := r.db.QueryRowContext(ctx, query, shopID, userID).Scan(&s.ShopID, &s.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
