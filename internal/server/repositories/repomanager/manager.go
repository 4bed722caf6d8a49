package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/assets"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/associations"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/offers"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/quotas"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/shops"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/subscriptions"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same code path inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Assets(db dbx.DBTX) assets.Repository
	Associations(db dbx.DBTX) associations.Repository
	Quotas(db dbx.DBTX) quotas.Repository
	Shops(db dbx.DBTX) shops.Repository
	Offers(db dbx.DBTX) offers.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
}
