package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type harness struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	rm      *fakeRepoManager
	store   *fakeStore
	cache   *fakeCache
	metrics *metrics.Metrics

	quotas   *QuotaService
	access   *AccessService
	assets   *AssetService
	uploads  *UploadService
	ordering *OrderingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock := newSQLMock(t)
	h := &harness{
		db:      db,
		mock:    mock,
		rm:      newFakeRepoManager(),
		store:   newFakeStore(),
		cache:   newFakeCache(),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	log := logging.Nop()
	cfg := &config.Config{DefaultQuotaMiB: 1}

	h.quotas = NewQuotaService(db, h.rm, cfg)
	h.access = NewAccessService(db, h.rm, h.cache, 30*time.Second, log)
	h.access.now = func() time.Time { return fixedNow }
	h.assets = NewAssetService(db, h.rm, h.store, h.quotas, h.access, h.metrics, log)
	h.assets.now = func() time.Time { return fixedNow }
	h.uploads = NewUploadService(db, h.rm, h.store, h.quotas, h.metrics, log)
	h.ordering = NewOrderingService(db, h.rm, h.metrics, log)
	return h
}

// expectTx queues n committed transactions.
func (h *harness) expectTx(n int) {
	for i := 0; i < n; i++ {
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()
	}
}

func (h *harness) expectRollback() {
	h.mock.ExpectBegin()
	h.mock.ExpectRollback()
}

func (h *harness) verify(t *testing.T) {
	t.Helper()
	if err := h.mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
