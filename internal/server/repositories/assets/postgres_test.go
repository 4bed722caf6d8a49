package assets

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ts         = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rowColumns = []string{"asset_id", "shop_id", "user_id", "created_at", "updated_at", "name", "storage_key", "size_bytes", "file_name"}
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func assetRow(cols ...string) *sqlmock.Rows {
	return sqlmock.NewRows(append(append([]string{}, rowColumns...), cols...))
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+assets\b.*RETURNING\s+created_at,\s*updated_at`).
		WithArgs("a1", "s1", "u1", "clip", "u1/s1/a1", int64(10), "clip.mp4").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	a := &models.Asset{ID: "a1", ShopID: "s1", UserID: "u1", Name: "clip", StorageKey: "u1/s1/a1", SizeBytes: 10, FileName: "clip.mp4"}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, ts, a.CreatedAt)
	assert.Equal(t, ts, a.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+assets`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Asset{ID: "a1"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+assets`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Asset{ID: "a1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetForOwner_WithOffers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+a\.asset_id.*string_agg.*FROM\s+assets\s+a\s+WHERE\s+a\.asset_id\s*=\s*\$1\s+AND\s+a\.user_id\s*=\s*\$2`).
		WithArgs("a1", "u1").
		WillReturnRows(assetRow("offers").AddRow("a1", "s1", "u1", ts, ts, "clip", "u1/s1/a1", int64(5), "clip.mp4", "o1,o2"))

	a, err := repo.GetForOwner(context.Background(), "a1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "clip", a.Name)
	assert.Equal(t, int64(5), a.SizeBytes)
	assert.Equal(t, []string{"o1", "o2"}, a.OfferIDs)
}

func TestGetForOwner_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+assets\s+a`).WithArgs("a1", "u2").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForOwner(context.Background(), "a1", "u2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLockForOwner_UsesRowLock(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+asset_id.*FROM\s+assets\s+WHERE\s+asset_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+UPDATE$`).
		WithArgs("a1", "u1").
		WillReturnRows(assetRow().AddRow("a1", "s1", "u1", ts, ts, "clip", "k", int64(0), ""))

	a, err := repo.LockForOwner(context.Background(), "a1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSize(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)UPDATE\s+assets\s+SET\s+size_bytes\s*=\s*size_bytes\s*\+\s*\$2.*WHERE\s+asset_id\s*=\s*\$1.*RETURNING`).
		WithArgs("a1", int64(20)).
		WillReturnRows(assetRow().AddRow("a1", "s1", "u1", ts, ts, "clip", "k", int64(30), ""))

	a, err := repo.AddSize(context.Background(), "a1", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(30), a.SizeBytes)
}

func TestUpdate_OnlySetFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "renamed"
	size := int64(7)
	mock.ExpectQuery(`(?s)UPDATE\s+assets\s+SET\s+updated_at\s*=\s*now\(\),\s*name\s*=\s*\$3,\s*size_bytes\s*=\s*\$4\s+WHERE\s+asset_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("a1", "u1", "renamed", int64(7)).
		WillReturnRows(assetRow().AddRow("a1", "s1", "u1", ts, ts, "renamed", "k", int64(7), "f"))

	a, err := repo.Update(context.Background(), "a1", "u1", models.AssetUpdate{Name: &name, SizeBytes: &size})
	require.NoError(t, err)
	assert.Equal(t, "renamed", a.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`DELETE\s+FROM\s+assets\s+WHERE\s+asset_id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
			WithArgs("a1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), "a1", "u1"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`DELETE\s+FROM\s+assets`).WithArgs("a1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "a1", "u1"), common.ErrorNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`DELETE\s+FROM\s+assets`).WithArgs("a1", "u1").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))

		err := repo.Delete(context.Background(), "a1", "u1")
		if err == nil || !regexp.MustCompile(`rows affected error: .*rows-err`).MatchString(err.Error()) {
			t.Fatalf("expected rows affected error, got %v", err)
		}
	})
}

func TestSumSizeForUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COALESCE\(SUM\(size_bytes\),\s*0\).*FROM\s+assets\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(1234)))

	total, err := repo.SumSizeForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), total)
}

func TestList_NameFilterAndPaging(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\)\s+FROM\s+assets\s+a\s+WHERE\s+a\.shop_id\s*=\s*\$1\s+AND\s+a\.user_id\s*=\s*\$2\s+AND\s+a\.name\s*=\s*\$3$`).
		WithArgs("s1", "u1", "clip").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`(?s)ORDER\s+BY\s+a\.updated_at\s+DESC,\s*a\.asset_id\s+ASC\s+LIMIT\s+\$4\s+OFFSET\s+\$5$`).
		WithArgs("s1", "u1", "clip", int64(2), int64(2)).
		WillReturnRows(assetRow("offers").
			AddRow("a3", "s1", "u1", ts, ts, "clip", "k3", int64(1), "", ""))

	items, total, err := repo.List(context.Background(), "s1", "u1", models.Page{Page: 2, Size: 2},
		&models.AssetFilter{Field: models.AssetFilterName, Query: "clip"},
		&models.AssetOrder{Field: models.AssetOrderUpdatedAt, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "a3", items[0].ID)
	assert.Nil(t, items[0].OfferIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OfferFilterOrdersByThatOffer(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\).*fo\.offer_id\s*=\s*\$3\)`).
		WithArgs("s1", "u1", "o1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`(?s)ORDER\s+BY\s+\(SELECT\s+oo\.ordering\s+FROM\s+asset_offers\s+oo\s+WHERE\s+oo\.asset_id\s*=\s*a\.asset_id\s+AND\s+oo\.offer_id\s*=\s*\$3\)\s+ASC`).
		WithArgs("s1", "u1", "o1", int64(100), int64(0)).
		WillReturnRows(assetRow("offers").
			AddRow("a1", "s1", "u1", ts, ts, "x", "k1", int64(1), "", "o1").
			AddRow("a2", "s1", "u1", ts, ts, "y", "k2", int64(1), "", "o1"))

	items, total, err := repo.List(context.Background(), "s1", "u1", models.Page{Page: 1, Size: 100},
		&models.AssetFilter{Field: models.AssetFilterOfferID, Query: "o1"},
		&models.AssetOrder{Field: models.AssetOrderOrdering})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"o1"}, items[1].OfferIDs)
}

func TestList_UnknownFilter(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, _, err := repo.List(context.Background(), "s1", "u1", models.Page{Page: 1, Size: 10},
		&models.AssetFilter{Field: models.AssetFilterField(99)}, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)
}

func TestGet_AnyOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+a\.asset_id.*string_agg.*FROM\s+assets\s+a\s+WHERE\s+a\.asset_id\s*=\s*\$1\s*$`).
		WithArgs("a1").
		WillReturnRows(assetRow("offers").AddRow("a1", "s1", "owner", ts, ts, "x", "owner/s1/a1", int64(1), "x.bin", ""))

	a, err := repo.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "owner/s1/a1", a.StorageKey)
	assert.Nil(t, a.OfferIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAccessible_DefaultOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\).*s\.buyer_user_id\s*=\s*\$1\s+AND\s+s\.payed_until\s*>=\s*\$2`).
		WithArgs("buyer", ts).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`(?s)ORDER\s+BY\s+a\.created_at\s+ASC`).
		WithArgs("buyer", ts, int64(10), int64(0)).
		WillReturnRows(assetRow("offers"))

	items, total, err := repo.ListAccessible(context.Background(), "buyer", ts, models.Page{Page: 1, Size: 10}, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}
