package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

// PostgresRepository implements asset storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const assetColumns = `asset_id, shop_id, user_id, created_at, updated_at, name, storage_key, size_bytes, file_name`

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row scanner, extra ...any) (*models.Asset, error) {
	var a models.Asset
	dest := append([]any{&a.ID, &a.ShopID, &a.UserID, &a.CreatedAt, &a.UpdatedAt,
		&a.Name, &a.StorageKey, &a.SizeBytes, &a.FileName}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

// Create inserts a new asset row. A duplicate id or storage key yields
// common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Asset) error {
	query := `
		INSERT INTO assets (asset_id, shop_id, user_id, name, storage_key, size_bytes, file_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.ShopID, a.UserID, a.Name, a.StorageKey, a.SizeBytes, a.FileName).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetForOwner returns the asset when it belongs to userID, with its offer ids.
func (r *PostgresRepository) GetForOwner(ctx context.Context, id, userID string) (*models.Asset, error) {
	query := `
		SELECT a.asset_id, a.shop_id, a.user_id, a.created_at, a.updated_at, a.name, a.storage_key, a.size_bytes, a.file_name,
			COALESCE((SELECT string_agg(ao.offer_id::text, ',' ORDER BY ao.offer_id) FROM asset_offers ao WHERE ao.asset_id = a.asset_id), '')
		FROM assets a
		WHERE a.asset_id = $1 AND a.user_id = $2
	`
	var offers string
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id, userID), &offers)
	if err != nil {
		return nil, err
	}
	a.OfferIDs = splitOffers(offers)
	return a, nil
}

// LockForOwner selects the asset FOR UPDATE when it belongs to userID.
func (r *PostgresRepository) LockForOwner(ctx context.Context, id, userID string) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1 AND user_id = $2 FOR UPDATE`
	return scanAsset(r.db.QueryRowContext(ctx, query, id, userID))
}

// AddSize adds delta to the recorded size and returns the updated row.
func (r *PostgresRepository) AddSize(ctx context.Context, id string, delta int64) (*models.Asset, error) {
	query := `
		UPDATE assets SET size_bytes = size_bytes + $2, updated_at = now()
		WHERE asset_id = $1
		RETURNING ` + assetColumns
	return scanAsset(r.db.QueryRowContext(ctx, query, id, delta))
}

// Update applies the non-nil fields of upd.
func (r *PostgresRepository) Update(ctx context.Context, id, userID string, upd models.AssetUpdate) (*models.Asset, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id, userID}

	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.FileName != nil {
		args = append(args, *upd.FileName)
		sets = append(sets, fmt.Sprintf("file_name = $%d", len(args)))
	}
	if upd.SizeBytes != nil {
		args = append(args, *upd.SizeBytes)
		sets = append(sets, fmt.Sprintf("size_bytes = $%d", len(args)))
	}

	query := `UPDATE assets SET ` + strings.Join(sets, ", ") +
		` WHERE asset_id = $1 AND user_id = $2 RETURNING ` + assetColumns
	return scanAsset(r.db.QueryRowContext(ctx, query, args...))
}

// Delete removes the asset; associations go with it (ON DELETE CASCADE).
func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM assets WHERE asset_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
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

// SumSizeForUser returns the total recorded bytes over every asset of userID.
func (r *PostgresRepository) SumSizeForUser(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(SUM(size_bytes), 0)::BIGINT FROM assets WHERE user_id = $1`
	var total int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// List returns one page of the shop's assets owned by userID and the total count.
func (r *PostgresRepository) List(ctx context.Context, shopID, userID string, page models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error) {

	q := newListQuery("a.shop_id = $1 AND a.user_id = $2", shopID, userID)
	return r.list(ctx, q, page, filter, order)
}

// Get returns the asset regardless of owner, with its offer ids. Callers
// decide access.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	query := `
		SELECT ` + prefixed("a", assetColumns) + `,
			COALESCE((SELECT string_agg(ao.offer_id::text, ',' ORDER BY ao.offer_id) FROM asset_offers ao WHERE ao.asset_id = a.asset_id), '')
		FROM assets a
		WHERE a.asset_id = $1
	`
	var offers string
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id), &offers)
	if err != nil {
		return nil, err
	}
	a.OfferIDs = splitOffers(offers)
	return a, nil
}

// ListAccessible lists the assets reachable through userID's active subscriptions.
func (r *PostgresRepository) ListAccessible(ctx context.Context, userID string, now time.Time, page models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error) {

	q := newListQuery(`EXISTS (
			SELECT 1 FROM asset_offers sa
			JOIN subscriptions s ON s.offer_id = sa.offer_id
			WHERE sa.asset_id = a.asset_id AND s.buyer_user_id = $1 AND s.payed_until >= $2
		)`, userID, now)
	return r.list(ctx, q, page, filter, order)
}

func (r *PostgresRepository) list(ctx context.Context, q *listQuery, page models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error) {

	if err := q.applyFilter(filter); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, q.countSQL(), q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query, args := q.selectSQL(order, page)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select assets: %w", err)
	}
	defer rows.Close()

	var result []*models.Asset
	for rows.Next() {
		var offers string
		a, err := scanAsset(rows, &offers)
		if err != nil {
			return nil, 0, err
		}
		a.OfferIDs = splitOffers(offers)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func splitOffers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
