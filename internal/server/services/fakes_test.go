package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/accesscache"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/assets"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/associations"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/offers"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/quotas"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/shops"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/subscriptions"
)

const (
	userA  = "user-a"
	userB  = "user-b"
	shop1  = "7f1c2e5a-0d7e-4a59-9c33-1b2f7c0f1a01"
	offer1 = "0b6f4a0e-3c1d-4f7e-8a55-2d9e6b1c7a02"
	offer2 = "5d2e8c3b-9a4f-4b6d-a1e0-7c3f9d8e2b03"
	asset1 = "c4a7e9d2-1b3f-4e8a-9d6c-5f2a1b7e3c04"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- repositories ---

type fakeAssets struct {
	assets.Repository
	mu       sync.Mutex
	rows     map[string]*models.Asset
	offerIDs map[string][]string

	createErr  error
	addSizeErr error
	deleteErr  error
	sumErr     error

	listOut   []*models.Asset
	listTotal int64
	listPage  models.Page
	listUser  string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{rows: map[string]*models.Asset{}, offerIDs: map[string][]string{}}
}

func (f *fakeAssets) put(a *models.Asset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.rows[a.ID] = &cp
}

func (f *fakeAssets) Create(ctx context.Context, a *models.Asset) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[a.ID]; ok {
		return common.ErrAlreadyExists
	}
	a.CreatedAt, a.UpdatedAt = fixedNow, fixedNow
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAssets) get(id string) (*models.Asset, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	cp.OfferIDs = f.offerIDs[id]
	return &cp, nil
}

func (f *fakeAssets) Get(ctx context.Context, id string) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeAssets) GetForOwner(ctx context.Context, id, userID string) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.get(id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAssets) LockForOwner(ctx context.Context, id, userID string) (*models.Asset, error) {
	return f.GetForOwner(ctx, id, userID)
}

func (f *fakeAssets) AddSize(ctx context.Context, id string, delta int64) (*models.Asset, error) {
	if f.addSizeErr != nil {
		return nil, f.addSizeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.SizeBytes += delta
	cp := *a
	return &cp, nil
}

func (f *fakeAssets) Update(ctx context.Context, id, userID string, upd models.AssetUpdate) (*models.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok || a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.FileName != nil {
		a.FileName = *upd.FileName
	}
	if upd.SizeBytes != nil {
		a.SizeBytes = *upd.SizeBytes
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssets) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok || a.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAssets) SumSizeForUser(ctx context.Context, userID string) (int64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, a := range f.rows {
		if a.UserID == userID {
			total += a.SizeBytes
		}
	}
	return total, nil
}

func (f *fakeAssets) List(ctx context.Context, shopID, userID string, page models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error) {
	f.listPage, f.listUser = page, userID
	return f.listOut, f.listTotal, nil
}

func (f *fakeAssets) ListAccessible(ctx context.Context, userID string, now time.Time, page models.Page,
	filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, int64, error) {
	f.listPage, f.listUser = page, userID
	return f.listOut, f.listTotal, nil
}

type fakeAssociations struct {
	associations.Repository
	mu   sync.Mutex
	rows []*models.Association
}

func (f *fakeAssociations) LockForOffer(ctx context.Context, offerID string) ([]*models.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Association
	for _, a := range f.rows {
		if a.OfferID == offerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordering < out[j].Ordering })
	return out, nil
}

func (f *fakeAssociations) Create(ctx context.Context, a *models.Association) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.AssetID == a.AssetID && r.OfferID == a.OfferID {
			return common.ErrAlreadyExists
		}
	}
	cp := *a
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeAssociations) SetOrdering(ctx context.Context, assetID, offerID string, ordering int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.AssetID == assetID && r.OfferID == offerID {
			r.Ordering = ordering
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAssociations) ShiftRange(ctx context.Context, offerID string, from, to, delta int64, excludeAssetID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.OfferID == offerID && r.Ordering >= from && r.Ordering <= to && r.AssetID != excludeAssetID {
			r.Ordering += delta
			n++
		}
	}
	return n, nil
}

func (f *fakeAssociations) Delete(ctx context.Context, assetID, offerID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.AssetID == assetID && r.OfferID == offerID && r.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

// orderings returns assetID -> ordering for one offer.
func (f *fakeAssociations) orderings(offerID string) map[string]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, r := range f.rows {
		if r.OfferID == offerID {
			out[r.AssetID] = r.Ordering
		}
	}
	return out
}

type fakeQuotas struct {
	quotas.Repository
	mu        sync.Mutex
	rows      map[string]int64
	ensureErr error
}

func (f *fakeQuotas) Ensure(ctx context.Context, userID string, defaultMaxBytes int64) (*models.Quota, error) {
	if f.ensureErr != nil {
		return nil, f.ensureErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	limit, ok := f.rows[userID]
	if !ok {
		limit = defaultMaxBytes
		f.rows[userID] = limit
	}
	return &models.Quota{UserID: userID, MaxBytes: limit}, nil
}

type fakeShops struct {
	shops.Repository
	owners map[string]string
}

func (f *fakeShops) GetForOwner(ctx context.Context, shopID, userID string) (*models.ShopOwnership, error) {
	if f.owners[shopID] != userID {
		return nil, common.ErrorNotFound
	}
	return &models.ShopOwnership{ShopID: shopID, UserID: userID}, nil
}

type fakeOffers struct {
	offers.Repository
	owners map[string]string
}

func (f *fakeOffers) LockForOwner(ctx context.Context, offerID, userID string) (*models.OfferOwnership, error) {
	if f.owners[offerID] != userID {
		return nil, common.ErrorNotFound
	}
	return &models.OfferOwnership{OfferID: offerID, ShopID: shop1, UserID: userID}, nil
}

type fakeSubscriptions struct {
	subscriptions.Repository
	mu        sync.Mutex
	rows      []*models.Subscription
	activeErr error
	calls     int

	listShop string
	listPage models.Page
}

func (f *fakeSubscriptions) GetActive(ctx context.Context, buyerUserID, offerID string, now time.Time) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	for _, s := range f.rows {
		if s.BuyerUserID == buyerUserID && s.OfferID == offerID && s.Active(now) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSubscriptions) Get(ctx context.Context, id, buyerUserID string) (*models.Subscription, error) {
	for _, s := range f.rows {
		if s.ID == id && s.BuyerUserID == buyerUserID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSubscriptions) List(ctx context.Context, buyerUserID, shopID string, page models.Page) ([]*models.Subscription, int64, error) {
	f.listShop, f.listPage = shopID, page
	var out []*models.Subscription
	for _, s := range f.rows {
		if s.BuyerUserID == buyerUserID && (shopID == "" || s.ShopID == shopID) {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

type fakeRepoManager struct {
	// assetsOverride, when set, is returned instead of assets.
	assetsOverride assets.Repository

	assets *fakeAssets
	assoc  *fakeAssociations
	quotas *fakeQuotas
	shops  *fakeShops
	offers *fakeOffers
	subs   *fakeSubscriptions
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		assets: newFakeAssets(),
		assoc:  &fakeAssociations{},
		quotas: &fakeQuotas{rows: map[string]int64{}},
		shops:  &fakeShops{owners: map[string]string{shop1: userA}},
		offers: &fakeOffers{owners: map[string]string{offer1: userA, offer2: userA}},
		subs:   &fakeSubscriptions{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Assets(db dbx.DBTX) assets.Repository {
	if m.assetsOverride != nil {
		return m.assetsOverride
	}
	return m.assets
}
func (m *fakeRepoManager) Associations(db dbx.DBTX) associations.Repository   { return m.assoc }
func (m *fakeRepoManager) Quotas(db dbx.DBTX) quotas.Repository               { return m.quotas }
func (m *fakeRepoManager) Shops(db dbx.DBTX) shops.Repository                 { return m.shops }
func (m *fakeRepoManager) Offers(db dbx.DBTX) offers.Repository               { return m.offers }
func (m *fakeRepoManager) Subscriptions(db dbx.DBTX) subscriptions.Repository { return m.subs }

// --- object store ---

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	parts   map[string]map[int32][]byte
	aborted []string
	deleted []string
	nextID  int

	putErr    error
	deleteErr error
	abortErr  error
	partErr   error
	// abortCtxErr records ctx.Err() seen by AbortMultipart.
	abortCtxErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, parts: map[string]map[int32][]byte{}}
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return b, nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key, fileName string) (string, error) {
	return "https://store.local/" + key + "?name=" + fileName, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) InitiateMultipart(ctx context.Context, key, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("%s#%d", key, f.nextID)
	f.parts[id] = map[int32][]byte{}
	return id, nil
}

func (f *fakeStore) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, data []byte) (string, error) {
	if f.partErr != nil {
		return "", f.partErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	up, ok := f.parts[uploadID]
	if !ok {
		return "", errors.New("no such upload")
	}
	up[partNumber] = append([]byte(nil), data...)
	return fmt.Sprintf("etag-%d", partNumber), nil
}

func (f *fakeStore) CompleteMultipart(ctx context.Context, key, uploadID string, parts []models.PartTag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	up, ok := f.parts[uploadID]
	if !ok {
		return errors.New("no such upload")
	}
	var data []byte
	for _, p := range parts {
		data = append(data, up[p.PartNumber]...)
	}
	f.objects[key] = data
	delete(f.parts, uploadID)
	return nil
}

func (f *fakeStore) AbortMultipart(ctx context.Context, key, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abortCtxErr = ctx.Err()
	f.aborted = append(f.aborted, uploadID)
	if f.abortErr != nil {
		return f.abortErr
	}
	delete(f.parts, uploadID)
	return nil
}

// --- access cache ---

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*accesscache.Snapshot
	getErr  error
	putErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*accesscache.Snapshot{}}
}

func (c *fakeCache) Get(ctx context.Context, userID, offerID string) (*accesscache.Snapshot, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[userID+"/"+offerID], nil
}

func (c *fakeCache) Put(ctx context.Context, userID, offerID string, s *accesscache.Snapshot) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID+"/"+offerID] = s
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, userID, offerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID+"/"+offerID)
	return nil
}
