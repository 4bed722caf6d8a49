package grpc

import (
	"fmt"
	"time"

	pb "github.com/dmitrijs2005/gophmedia/internal/api/mediav1"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func optionalUnix(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func assetToPB(a *models.Asset) *pb.Asset {
	if a == nil {
		return nil
	}
	offerIDs := a.OfferIDs
	if offerIDs == nil {
		offerIDs = []string{}
	}
	return &pb.Asset{
		AssetID:   a.ID,
		OfferIDs:  offerIDs,
		ShopID:    a.ShopID,
		UserID:    a.UserID,
		CreatedAt: unixOrZero(a.CreatedAt),
		UpdatedAt: unixOrZero(a.UpdatedAt),
		Name:      a.Name,
		FileName:  a.FileName,
		SizeBytes: a.SizeBytes,
	}
}

func assetsToPB(in []*models.Asset) []*pb.Asset {
	out := make([]*pb.Asset, 0, len(in))
	for _, a := range in {
		out = append(out, assetToPB(a))
	}
	return out
}

func subscriptionToPB(s *models.Subscription) *pb.Subscription {
	return &pb.Subscription{
		SubscriptionID:       s.ID,
		BuyerUserID:          s.BuyerUserID,
		OfferID:              s.OfferID,
		ShopID:               s.ShopID,
		CurrentPeriodStart:   unixOrZero(s.CurrentPeriodStart),
		CurrentPeriodEnd:     unixOrZero(s.CurrentPeriodEnd),
		SubscriptionStatus:   s.Status,
		PayedAt:              unixOrZero(s.PayedAt),
		PayedUntil:           unixOrZero(s.PayedUntil),
		StripeSubscriptionID: s.StripeSubscriptionID,
		CanceledAt:           optionalUnix(s.CanceledAt),
		CancelAt:             optionalUnix(s.CancelAt),
	}
}

func subscriptionsToPB(in []*models.Subscription) []*pb.Subscription {
	out := make([]*pb.Subscription, 0, len(in))
	for _, s := range in {
		out = append(out, subscriptionToPB(s))
	}
	return out
}

func pageFromPB(p *pb.Page) *models.Page {
	if p == nil {
		return nil
	}
	return &models.Page{Page: p.Page, Size: p.Size}
}

func paginationToPB(p *models.Pagination) *pb.Pagination {
	if p == nil {
		return nil
	}
	return &pb.Pagination{Page: p.Page, Size: p.Size, TotalCount: p.TotalCount}
}

func uploadFromPB(u *pb.Upload) *models.Upload {
	if u == nil {
		return nil
	}
	return &models.Upload{ContentType: u.ContentType, Data: u.Data}
}

func filterFromPB(f *pb.Filter) (*models.AssetFilter, error) {
	if f == nil {
		return nil, nil
	}
	out := &models.AssetFilter{Query: f.Query}
	switch f.Field {
	case pb.FilterFieldUnspecified:
		out.Field = models.AssetFilterNone
	case pb.FilterFieldName:
		out.Field = models.AssetFilterName
	case pb.FilterFieldOfferID:
		out.Field = models.AssetFilterOfferID
	default:
		return nil, fmt.Errorf("%w: filter.field %d", common.ErrorInvalidArgument, f.Field)
	}
	return out, nil
}

func orderFromPB(o *pb.OrderBy) (*models.AssetOrder, error) {
	if o == nil {
		return nil, nil
	}
	out := &models.AssetOrder{}
	switch o.Field {
	case pb.OrderByFieldUnspecified, pb.OrderByFieldCreatedAt:
		out.Field = models.AssetOrderCreatedAt
	case pb.OrderByFieldUpdatedAt:
		out.Field = models.AssetOrderUpdatedAt
	case pb.OrderByFieldOrdering:
		out.Field = models.AssetOrderOrdering
	default:
		return nil, fmt.Errorf("%w: order_by.field %d", common.ErrorInvalidArgument, o.Field)
	}
	switch o.Direction {
	case pb.DirectionUnspecified, pb.DirectionAsc:
	case pb.DirectionDesc:
		out.Descending = true
	default:
		return nil, fmt.Errorf("%w: order_by.direction %d", common.ErrorInvalidArgument, o.Direction)
	}
	return out, nil
}

func listParams(f *pb.Filter, o *pb.OrderBy) (*models.AssetFilter, *models.AssetOrder, error) {
	filter, err := filterFromPB(f)
	if err != nil {
		return nil, nil, err
	}
	order, err := orderFromPB(o)
	if err != nil {
		return nil, nil, err
	}
	return filter, order, nil
}
