package assets

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

// listQuery accumulates WHERE clauses and positional args for list queries.
type listQuery struct {
	where    []string
	args     []any
	offerArg int
}

func newListQuery(where string, args ...any) *listQuery {
	return &listQuery{where: []string{where}, args: args}
}

func (q *listQuery) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listQuery) applyFilter(f *models.AssetFilter) error {
	if f == nil {
		return nil
	}
	switch f.Field {
	case models.AssetFilterNone:
	case models.AssetFilterName:
		q.where = append(q.where, "a.name = "+q.bind(f.Query))
	case models.AssetFilterOfferID:
		p := q.bind(f.Query)
		q.offerArg = len(q.args)
		q.where = append(q.where,
			"EXISTS (SELECT 1 FROM asset_offers fo WHERE fo.asset_id = a.asset_id AND fo.offer_id = "+p+")")
	default:
		return fmt.Errorf("%w: filter field %d", common.ErrorInvalidArgument, f.Field)
	}
	return nil
}

func (q *listQuery) whereSQL() string {
	return strings.Join(q.where, " AND ")
}

func (q *listQuery) countSQL() string {
	return `SELECT COUNT(*) FROM assets a WHERE ` + q.whereSQL()
}

func (q *listQuery) orderSQL(order *models.AssetOrder) string {
	o := models.AssetOrder{Field: models.AssetOrderCreatedAt}
	if order != nil {
		o = *order
	}

	var expr string
	switch o.Field {
	case models.AssetOrderUpdatedAt:
		expr = "a.updated_at"
	case models.AssetOrderOrdering:
		if q.offerArg > 0 {
			expr = fmt.Sprintf("(SELECT oo.ordering FROM asset_offers oo WHERE oo.asset_id = a.asset_id AND oo.offer_id = $%d)", q.offerArg)
		} else {
			expr = "(SELECT MIN(oo.ordering) FROM asset_offers oo WHERE oo.asset_id = a.asset_id)"
		}
	default:
		expr = "a.created_at"
	}

	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, a.asset_id ASC", expr, dir)
}

// selectSQL appends LIMIT/OFFSET to a copy of the filter args.
func (q *listQuery) selectSQL(order *models.AssetOrder, page models.Page) (string, []any) {
	args := append([]any{}, q.args...)
	args = append(args, page.Limit(), page.Offset())

	query := `
		SELECT ` + prefixed("a", assetColumns) + `,
			COALESCE((SELECT string_agg(ao.offer_id::text, ',' ORDER BY ao.offer_id) FROM asset_offers ao WHERE ao.asset_id = a.asset_id), '')
		FROM assets a
		WHERE ` + q.whereSQL() + `
		ORDER BY ` + q.orderSQL(order) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}
