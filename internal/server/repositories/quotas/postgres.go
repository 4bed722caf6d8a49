package quotas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

// PostgresRepository implements quota storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Quota, error) {
	query := `SELECT user_id, max_bytes FROM quotas WHERE user_id = $1`
	q := &models.Quota{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&q.UserID, &q.MaxBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return q, nil
}

// Ensure inserts the default row if missing and reads back whichever row
// won. Concurrent callers converge on a single record.
func (r *PostgresRepository) Ensure(ctx context.Context, userID string, defaultMaxBytes int64) (*models.Quota, error) {
	query := `INSERT INTO quotas (user_id, max_bytes) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, defaultMaxBytes); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, userID)
}
