package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
)

// QuotaService compares a user's stored bytes against their ceiling.
// Ceilings are created lazily with the configured default and never
// incremented; usage is always the sum of asset sizes.
type QuotaService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	defaultMaxBytes int64
}

func NewQuotaService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *QuotaService {
	return &QuotaService{
		db:              db,
		repomanager:     m,
		defaultMaxBytes: cfg.DefaultQuotaMiB * common.MiB,
	}
}

// EnsureQuota returns the user's quota, creating the default one if needed.
func (s *QuotaService) EnsureQuota(ctx context.Context, userID string) (*models.Quota, error) {
	q, err := s.repomanager.Quotas(s.db).Ensure(ctx, userID, s.defaultMaxBytes)
	if err != nil {
		return nil, fmt.Errorf("ensure quota: %w", err)
	}
	return q, nil
}

// CheckQuota returns common.ErrQuotaExceeded when the user's stored bytes
// are strictly above the ceiling.
func (s *QuotaService) CheckQuota(ctx context.Context, userID string) error {
	u, err := s.Usage(ctx, userID)
	if err != nil {
		return err
	}
	if exceeded(u) {
		return common.ErrQuotaExceeded
	}
	return nil
}

func (s *QuotaService) Usage(ctx context.Context, userID string) (*models.QuotaUsage, error) {
	q, err := s.EnsureQuota(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.repomanager.Assets(s.db).SumSizeForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum asset sizes: %w", err)
	}
	return &models.QuotaUsage{UsedBytes: total, MaxBytes: q.MaxBytes}, nil
}

func exceeded(u *models.QuotaUsage) bool {
	return u.UsedBytes > u.MaxBytes
}
