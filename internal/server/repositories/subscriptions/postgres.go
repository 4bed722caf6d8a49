package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const columns = `subscription_id, buyer_user_id, offer_id, shop_id, current_period_start, current_period_end,
	subscription_status, payed_at, payed_until, stripe_subscription_id, canceled_at, cancel_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.Subscription, error) {
	var (
		s          models.Subscription
		stripeID   sql.NullString
		canceledAt sql.NullTime
		cancelAt   sql.NullTime
	)
	err := row.Scan(&s.ID, &s.BuyerUserID, &s.OfferID, &s.ShopID, &s.CurrentPeriodStart, &s.CurrentPeriodEnd,
		&s.Status, &s.PayedAt, &s.PayedUntil, &stripeID, &canceledAt, &cancelAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stripeID.Valid {
		s.StripeSubscriptionID = &stripeID.String
	}
	if canceledAt.Valid {
		s.CanceledAt = &canceledAt.Time
	}
	if cancelAt.Valid {
		s.CancelAt = &cancelAt.Time
	}
	return &s, nil
}

// Upsert replaces the whole record for s.ID.
func (r *PostgresRepository) Upsert(ctx context.Context, s *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (subscription_id) DO UPDATE SET
			buyer_user_id = EXCLUDED.buyer_user_id,
			offer_id = EXCLUDED.offer_id,
			shop_id = EXCLUDED.shop_id,
			current_period_start = EXCLUDED.current_period_start,
			current_period_end = EXCLUDED.current_period_end,
			subscription_status = EXCLUDED.subscription_status,
			payed_at = EXCLUDED.payed_at,
			payed_until = EXCLUDED.payed_until,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			canceled_at = EXCLUDED.canceled_at,
			cancel_at = EXCLUDED.cancel_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.BuyerUserID, s.OfferID, s.ShopID, s.CurrentPeriodStart, s.CurrentPeriodEnd,
		s.Status, s.PayedAt, s.PayedUntil, s.StripeSubscriptionID, s.CanceledAt, s.CancelAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete is a no-op for unknown subscriptions.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE subscription_id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetActive(ctx context.Context, buyerUserID, offerID string, now time.Time) (*models.Subscription, error) {
	query := `SELECT ` + columns + ` FROM subscriptions
		WHERE buyer_user_id = $1 AND offer_id = $2 AND payed_until >= $3
		ORDER BY payed_until DESC
		LIMIT 1`
	return scan(r.db.QueryRowContext(ctx, query, buyerUserID, offerID, now))
}

func (r *PostgresRepository) Get(ctx context.Context, id, buyerUserID string) (*models.Subscription, error) {
	query := `SELECT ` + columns + ` FROM subscriptions WHERE subscription_id = $1 AND buyer_user_id = $2`
	return scan(r.db.QueryRowContext(ctx, query, id, buyerUserID))
}

// List pages through the buyer's subscriptions, optionally within one shop.
func (r *PostgresRepository) List(ctx context.Context, buyerUserID, shopID string, page models.Page) ([]*models.Subscription, int64, error) {
	where := `buyer_user_id = $1`
	args := []any{buyerUserID}
	if shopID != "" {
		where += ` AND shop_id = $2`
		args = append(args, shopID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	n := len(args)
	args = append(args, page.Limit(), page.Offset())
	query := `SELECT ` + columns + ` FROM subscriptions WHERE ` + where +
		fmt.Sprintf(` ORDER BY payed_at DESC, subscription_id LIMIT $%d OFFSET $%d`, n+1, n+2)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select subscriptions: %w", err)
	}
	defer rows.Close()

	var result []*models.Subscription
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}
