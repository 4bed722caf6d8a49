// Package services contains server-side business logic: asset uploads under
// a per-user quota, offer orderings and subscription-based access.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmedia/internal/server/storage"
	"github.com/google/uuid"
)

// CreateAssetInput describes a new asset. File is optional; without it the
// asset starts empty and is usually filled by a multipart upload.
type CreateAssetInput struct {
	ShopID   string
	Name     string
	FileName string
	File     *models.Upload
}

// UpdateAssetInput carries optional changes. A non-nil File replaces the
// stored object and the recorded size.
type UpdateAssetInput struct {
	Name     *string
	FileName *string
	File     *models.Upload
}

// AssetService manages asset records and their whole-object uploads.
type AssetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	quotas      *QuotaService
	access      *AccessService
	metrics     *metrics.Metrics
	log         logging.Logger
	newID       func() string
	now         func() time.Time
}

func NewAssetService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore,
	quotas *QuotaService, access *AccessService, mt *metrics.Metrics, log logging.Logger) *AssetService {
	return &AssetService{
		db:          db,
		repomanager: m,
		store:       store,
		quotas:      quotas,
		access:      access,
		metrics:     mt,
		log:         log.With("module", "assets"),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// StorageKey is the object-store key of an asset.
func StorageKey(userID, shopID, assetID string) string {
	return userID + "/" + shopID + "/" + assetID
}

// Create stores a new asset in a shop owned by userID. The row is written
// first and committed only after the object store accepted the payload.
// A failure after commit is not compensated.
func (s *AssetService) Create(ctx context.Context, userID string, in CreateAssetInput) (*models.Asset, error) {
	if err := requireUUID("shop_id", in.ShopID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, invalid("name")
	}

	if err := s.quotas.CheckQuota(ctx, userID); err != nil {
		if errors.Is(err, common.ErrQuotaExceeded) {
			s.metrics.RecordQuotaBreach()
		}
		return nil, err
	}

	if _, err := s.repomanager.Shops(s.db).GetForOwner(ctx, in.ShopID, userID); err != nil {
		return nil, fmt.Errorf("shop %s: %w", in.ShopID, err)
	}

	id := s.newID()
	a := &models.Asset{
		ID:         id,
		ShopID:     in.ShopID,
		UserID:     userID,
		Name:       in.Name,
		StorageKey: StorageKey(userID, in.ShopID, id),
		FileName:   in.FileName,
	}
	if in.File != nil {
		a.SizeBytes = int64(len(in.File.Data))
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Assets(tx).Create(ctx, a); err != nil {
			return fmt.Errorf("create asset: %w", err)
		}
		if in.File != nil {
			return s.store.Put(ctx, a.StorageKey, in.File.Data, in.File.ContentType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordUpload(a.SizeBytes)
	s.log.Info(ctx, "asset created", "asset_id", a.ID, "shop_id", a.ShopID, "size", a.SizeBytes)
	return a, nil
}

func (s *AssetService) Get(ctx context.Context, userID, id string) (*models.Asset, error) {
	if err := requireUUID("asset_id", id); err != nil {
		return nil, err
	}
	return s.repomanager.Assets(s.db).GetForOwner(ctx, id, userID)
}

// List returns one page of userID's assets in a shop.
func (s *AssetService) List(ctx context.Context, userID, shopID string, page *models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, *models.Pagination, error) {

	if err := requireUUID("shop_id", shopID); err != nil {
		return nil, nil, err
	}
	p, err := resolvePage(page)
	if err != nil {
		return nil, nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, nil, err
	}

	items, total, err := s.repomanager.Assets(s.db).List(ctx, shopID, userID, p, filter, order)
	if err != nil {
		return nil, nil, err
	}
	return items, &models.Pagination{Page: p.Page, Size: p.Size, TotalCount: total}, nil
}

// ListAccessible returns the assets userID can read through subscriptions.
// An anonymous caller gets an empty page.
func (s *AssetService) ListAccessible(ctx context.Context, userID string, page *models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, *models.Pagination, error) {

	p, err := resolvePage(page)
	if err != nil {
		return nil, nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, nil, err
	}
	if userID == "" {
		return nil, &models.Pagination{Page: p.Page, Size: p.Size}, nil
	}

	items, total, err := s.repomanager.Assets(s.db).ListAccessible(ctx, userID, s.now(), p, filter, order)
	if err != nil {
		return nil, nil, err
	}
	return items, &models.Pagination{Page: p.Page, Size: p.Size, TotalCount: total}, nil
}

// Update changes metadata and optionally replaces the stored object.
func (s *AssetService) Update(ctx context.Context, userID, id string, in UpdateAssetInput) (*models.Asset, error) {
	if err := requireUUID("asset_id", id); err != nil {
		return nil, err
	}
	if in.Name != nil && *in.Name == "" {
		return nil, invalid("name")
	}

	upd := models.AssetUpdate{Name: in.Name, FileName: in.FileName}
	if in.File != nil {
		if err := s.quotas.CheckQuota(ctx, userID); err != nil {
			if errors.Is(err, common.ErrQuotaExceeded) {
				s.metrics.RecordQuotaBreach()
			}
			return nil, err
		}
		size := int64(len(in.File.Data))
		upd.SizeBytes = &size
	}

	a, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Asset, error) {
		repo := s.repomanager.Assets(tx)
		if _, err := repo.LockForOwner(ctx, id, userID); err != nil {
			return nil, err
		}
		a, err := repo.Update(ctx, id, userID, upd)
		if err != nil {
			return nil, fmt.Errorf("update asset: %w", err)
		}
		if in.File != nil {
			if err := s.store.Put(ctx, a.StorageKey, in.File.Data, in.File.ContentType); err != nil {
				return nil, err
			}
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	if in.File != nil {
		s.metrics.RecordUpload(a.SizeBytes)
	}
	return a, nil
}

// Delete removes the asset record, then its object. A failed object delete
// is logged and leaves an orphan in the bucket.
func (s *AssetService) Delete(ctx context.Context, userID, id string) error {
	if err := requireUUID("asset_id", id); err != nil {
		return err
	}

	a, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Asset, error) {
		repo := s.repomanager.Assets(tx)
		a, err := repo.LockForOwner(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		if err := repo.Delete(ctx, id, userID); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, a.StorageKey); err != nil {
		s.log.Error(ctx, "object delete failed", "asset_id", id, "key", a.StorageKey, "error", err)
	}
	return nil
}

// DownloadURL presigns a download for the owner or for a buyer with an
// active subscription to one of the asset's offers. Callers without access
// get common.ErrorNotFound.
func (s *AssetService) DownloadURL(ctx context.Context, userID, id string) (string, error) {
	if err := requireUUID("asset_id", id); err != nil {
		return "", err
	}

	a, err := s.repomanager.Assets(s.db).Get(ctx, id)
	if err != nil {
		return "", err
	}

	ok, err := s.canRead(ctx, userID, a)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrorNotFound
	}

	return s.store.PresignGet(ctx, a.StorageKey, a.FileName)
}

func (s *AssetService) canRead(ctx context.Context, userID string, a *models.Asset) (bool, error) {
	if a.UserID == userID {
		return true, nil
	}
	for _, offerID := range a.OfferIDs {
		ok, err := s.access.CheckOfferAccess(ctx, userID, offerID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func validateFilter(f *models.AssetFilter) error {
	if f == nil {
		return nil
	}
	switch f.Field {
	case models.AssetFilterNone, models.AssetFilterName:
		return nil
	case models.AssetFilterOfferID:
		return requireUUID("filter.query", f.Query)
	}
	return invalid("filter.field")
}
