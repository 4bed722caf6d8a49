package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmedia/internal/server/storage"
)

// S3 accepts part numbers 1..10000.
const maxPartNumber = 10000

// UploadService runs chunked uploads into an existing asset. Every chunk is
// charged to the asset size before it is sent to the store, so the quota
// check after it sees the bytes about to be written.
type UploadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	quotas      *QuotaService
	metrics     *metrics.Metrics
	log         logging.Logger
}

func NewUploadService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	quotas *QuotaService, mt *metrics.Metrics, log logging.Logger) *UploadService {
	return &UploadService{
		db:          db,
		repomanager: m,
		store:       store,
		quotas:      quotas,
		metrics:     mt,
		log:         log.With("module", "uploads"),
	}
}

// Initiate starts a multipart upload into the asset's storage key. The
// upload replaces the object on Complete, so the recorded size is reset to
// zero before the first chunk is charged.
func (s *UploadService) Initiate(ctx context.Context, userID, assetID, contentType string) (*models.MultipartUpload, error) {
	if err := requireUUID("asset_id", assetID); err != nil {
		return nil, err
	}

	if err := s.quotas.CheckQuota(ctx, userID); err != nil {
		if errors.Is(err, common.ErrQuotaExceeded) {
			s.metrics.RecordQuotaBreach()
		}
		return nil, err
	}

	a, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Asset, error) {
		repo := s.repomanager.Assets(tx)
		a, err := repo.LockForOwner(ctx, assetID, userID)
		if err != nil {
			return nil, err
		}
		if a.SizeBytes == 0 {
			return a, nil
		}
		if _, err := repo.AddSize(ctx, assetID, -a.SizeBytes); err != nil {
			return nil, fmt.Errorf("reset size: %w", err)
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	uploadID, err := s.store.InitiateMultipart(ctx, a.StorageKey, contentType)
	if err != nil {
		return nil, err
	}
	return &models.MultipartUpload{Key: a.StorageKey, UploadID: uploadID}, nil
}

// PutChunk charges len(chunk) to the asset, re-checks the quota and uploads
// the part. A part the store rejects is refunded. On a breach the multipart
// upload is aborted and the asset is deleted; the cleanup runs to completion
// even if ctx is cancelled.
func (s *UploadService) PutChunk(ctx context.Context, userID, assetID, uploadID string, partNumber int32, chunk []byte) (*models.PartTag, error) {
	if err := requireUUID("asset_id", assetID); err != nil {
		return nil, err
	}
	if uploadID == "" {
		return nil, invalid("upload_id")
	}
	if partNumber < 1 || partNumber > maxPartNumber {
		return nil, invalid("part_number")
	}

	a, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Asset, error) {
		repo := s.repomanager.Assets(tx)
		if _, err := repo.LockForOwner(ctx, assetID, userID); err != nil {
			return nil, err
		}
		a, err := repo.AddSize(ctx, assetID, int64(len(chunk)))
		if err != nil {
			return nil, fmt.Errorf("add size: %w", err)
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.quotas.CheckQuota(ctx, userID); err != nil {
		if !errors.Is(err, common.ErrQuotaExceeded) {
			return nil, err
		}
		s.metrics.RecordQuotaBreach()
		return nil, s.rollback(context.WithoutCancel(ctx), userID, a, uploadID)
	}

	etag, err := s.store.UploadPart(ctx, a.StorageKey, uploadID, partNumber, chunk)
	if err != nil {
		s.uncharge(context.WithoutCancel(ctx), a, int64(len(chunk)))
		return nil, err
	}

	s.metrics.RecordUpload(int64(len(chunk)))
	return &models.PartTag{PartNumber: partNumber, ETag: etag}, nil
}

// uncharge takes back the bytes of a part the store did not accept, so a
// retry of the same part is charged once.
func (s *UploadService) uncharge(ctx context.Context, a *models.Asset, n int64) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Assets(tx).AddSize(ctx, a.ID, -n)
		return err
	})
	if err != nil {
		s.log.Error(ctx, "size refund after failed part upload failed",
			"asset_id", a.ID, "bytes", n, "error", err)
	}
}

// rollback undoes a multipart upload that crossed the quota. It always
// returns an error wrapping common.ErrQuotaExceeded.
func (s *UploadService) rollback(ctx context.Context, userID string, a *models.Asset, uploadID string) error {
	log := s.log.With("asset_id", a.ID, "upload_id", uploadID)

	abortErr := s.store.AbortMultipart(ctx, a.StorageKey, uploadID)
	if abortErr != nil {
		log.Error(ctx, "abort multipart upload failed", "error", abortErr)
	}

	if err := s.store.Delete(ctx, a.StorageKey); err != nil {
		log.Warn(ctx, "object delete after quota breach failed", "error", err)
	}

	deleteErr := s.repomanager.Assets(s.db).Delete(ctx, a.ID, userID)
	if errors.Is(deleteErr, common.ErrorNotFound) {
		deleteErr = nil
	}
	if deleteErr != nil {
		log.Error(ctx, "asset delete after quota breach failed", "error", deleteErr)
	}

	s.metrics.RecordCleanup(abortErr == nil && deleteErr == nil)
	log.Info(ctx, "multipart upload rolled back after quota breach")

	return errors.Join(common.ErrQuotaExceeded, abortErr, deleteErr)
}

// Complete finalizes the upload with the caller's part tags, in order.
func (s *UploadService) Complete(ctx context.Context, userID, assetID, uploadID string, parts []models.PartTag) error {
	if err := requireUUID("asset_id", assetID); err != nil {
		return err
	}
	if uploadID == "" {
		return invalid("upload_id")
	}
	if len(parts) == 0 {
		return invalid("parts")
	}

	a, err := s.repomanager.Assets(s.db).GetForOwner(ctx, assetID, userID)
	if err != nil {
		return err
	}
	return s.store.CompleteMultipart(ctx, a.StorageKey, uploadID, parts)
}
