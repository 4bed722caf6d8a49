package grpc

import (
	"context"
	"errors"

	pb "github.com/dmitrijs2005/gophmedia/internal/api/mediav1"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) CreateAsset(ctx context.Context, req *pb.CreateAssetRequest) (*pb.CreateAssetResponse, error) {
	a, err := s.assets.Create(ctx, userIDFrom(ctx), services.CreateAssetInput{
		ShopID:   req.ShopID,
		Name:     req.Name,
		FileName: req.FileName,
		File:     uploadFromPB(req.File),
	})
	if err != nil {
		return nil, s.fail(ctx, "CreateAsset", err)
	}

	s.logger.Info(ctx, "asset created", "asset_id", a.ID, "shop_id", a.ShopID)
	return &pb.CreateAssetResponse{Asset: assetToPB(a)}, nil
}

func (s *GRPCServer) GetAsset(ctx context.Context, req *pb.GetAssetRequest) (*pb.GetAssetResponse, error) {
	a, err := s.assets.Get(ctx, userIDFrom(ctx), req.AssetID)
	if err != nil {
		return nil, s.fail(ctx, "GetAsset", err)
	}
	return &pb.GetAssetResponse{Asset: assetToPB(a)}, nil
}

func (s *GRPCServer) ListAssets(ctx context.Context, req *pb.ListAssetsRequest) (*pb.ListAssetsResponse, error) {
	filter, order, err := listParams(req.Filter, req.OrderBy)
	if err != nil {
		return nil, s.fail(ctx, "ListAssets", err)
	}

	items, p, err := s.assets.List(ctx, userIDFrom(ctx), req.ShopID, pageFromPB(req.Pagination), filter, order)
	if err != nil {
		return nil, s.fail(ctx, "ListAssets", err)
	}
	return &pb.ListAssetsResponse{Assets: assetsToPB(items), Pagination: paginationToPB(p)}, nil
}

func (s *GRPCServer) UpdateAsset(ctx context.Context, req *pb.UpdateAssetRequest) (*pb.UpdateAssetResponse, error) {
	a, err := s.assets.Update(ctx, userIDFrom(ctx), req.AssetID, services.UpdateAssetInput{
		Name:     req.Name,
		FileName: req.FileName,
		File:     uploadFromPB(req.File),
	})
	if err != nil {
		return nil, s.fail(ctx, "UpdateAsset", err)
	}
	return &pb.UpdateAssetResponse{Asset: assetToPB(a)}, nil
}

func (s *GRPCServer) DeleteAsset(ctx context.Context, req *pb.DeleteAssetRequest) (*pb.DeleteAssetResponse, error) {
	if err := s.assets.Delete(ctx, userIDFrom(ctx), req.AssetID); err != nil {
		return nil, s.fail(ctx, "DeleteAsset", err)
	}

	s.logger.Info(ctx, "asset deleted", "asset_id", req.AssetID)
	return &pb.DeleteAssetResponse{}, nil
}

func (s *GRPCServer) DownloadAsset(ctx context.Context, req *pb.DownloadAssetRequest) (*pb.DownloadAssetResponse, error) {
	url, err := s.assets.DownloadURL(ctx, userIDFrom(ctx), req.AssetID)
	if err != nil {
		return nil, s.fail(ctx, "DownloadAsset", err)
	}
	return &pb.DownloadAssetResponse{DownloadURL: url}, nil
}

// ListAccessibleAssets answers anonymous callers with an empty page.
func (s *GRPCServer) ListAccessibleAssets(ctx context.Context, req *pb.ListAccessibleAssetsRequest) (*pb.ListAccessibleAssetsResponse, error) {
	filter, order, err := listParams(req.Filter, req.OrderBy)
	if err != nil {
		return nil, s.fail(ctx, "ListAccessibleAssets", err)
	}

	items, p, err := s.assets.ListAccessible(ctx, userIDFrom(ctx), pageFromPB(req.Pagination), filter, order)
	if err != nil {
		return nil, s.fail(ctx, "ListAccessibleAssets", err)
	}
	return &pb.ListAccessibleAssetsResponse{Assets: assetsToPB(items), Pagination: paginationToPB(p)}, nil
}

func (s *GRPCServer) InitiateMultipartUpload(ctx context.Context, req *pb.InitiateMultipartUploadRequest) (*pb.InitiateMultipartUploadResponse, error) {
	up, err := s.uploads.Initiate(ctx, userIDFrom(ctx), req.AssetID, req.ContentType)
	if err != nil {
		return nil, s.fail(ctx, "InitiateMultipartUpload", err)
	}
	return &pb.InitiateMultipartUploadResponse{Key: up.Key, UploadID: up.UploadID}, nil
}

func (s *GRPCServer) PutMultipartChunk(ctx context.Context, req *pb.PutMultipartChunkRequest) (*pb.PutMultipartChunkResponse, error) {
	tag, err := s.uploads.PutChunk(ctx, userIDFrom(ctx), req.AssetID, req.UploadID, req.PartNumber, req.Chunk)
	if errors.Is(err, common.ErrQuotaExceeded) {
		// The upload was rolled back; the asset is gone.
		s.logger.Debug(ctx, "multipart upload aborted", "method", "PutMultipartChunk", "error", err)
		return nil, status.Error(codes.Aborted, "quota reached")
	}
	if err != nil {
		return nil, s.fail(ctx, "PutMultipartChunk", err)
	}
	return &pb.PutMultipartChunkResponse{Part: &pb.Part{PartNumber: tag.PartNumber, ETag: tag.ETag}}, nil
}

func (s *GRPCServer) CompleteMultipartUpload(ctx context.Context, req *pb.CompleteMultipartUploadRequest) (*pb.CompleteMultipartUploadResponse, error) {
	parts := make([]models.PartTag, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p == nil {
			continue
		}
		parts = append(parts, models.PartTag{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	if err := s.uploads.Complete(ctx, userIDFrom(ctx), req.AssetID, req.UploadID, parts); err != nil {
		return nil, s.fail(ctx, "CompleteMultipartUpload", err)
	}
	return &pb.CompleteMultipartUploadResponse{}, nil
}

func (s *GRPCServer) AddAssetToOffer(ctx context.Context, req *pb.AddAssetToOfferRequest) (*pb.AddAssetToOfferResponse, error) {
	ordering, err := s.ordering.Attach(ctx, userIDFrom(ctx), req.AssetID, req.OfferID, req.Ordering)
	if err != nil {
		return nil, s.fail(ctx, "AddAssetToOffer", err)
	}
	return &pb.AddAssetToOfferResponse{Ordering: ordering}, nil
}

func (s *GRPCServer) UpdateAssetOfferOrdering(ctx context.Context, req *pb.UpdateAssetOfferOrderingRequest) (*pb.UpdateAssetOfferOrderingResponse, error) {
	if err := s.ordering.Reorder(ctx, userIDFrom(ctx), req.AssetID, req.OfferID, req.Ordering); err != nil {
		return nil, s.fail(ctx, "UpdateAssetOfferOrdering", err)
	}
	return &pb.UpdateAssetOfferOrderingResponse{}, nil
}

func (s *GRPCServer) RemoveAssetFromOffer(ctx context.Context, req *pb.RemoveAssetFromOfferRequest) (*pb.RemoveAssetFromOfferResponse, error) {
	if err := s.ordering.Detach(ctx, userIDFrom(ctx), req.AssetID, req.OfferID); err != nil {
		return nil, s.fail(ctx, "RemoveAssetFromOffer", err)
	}
	return &pb.RemoveAssetFromOfferResponse{}, nil
}

func (s *GRPCServer) CheckQuota(ctx context.Context, req *pb.CheckQuotaRequest) (*pb.CheckQuotaResponse, error) {
	if err := s.quotas.CheckQuota(ctx, userIDFrom(ctx)); err != nil {
		return nil, s.fail(ctx, "CheckQuota", err)
	}
	return &pb.CheckQuotaResponse{}, nil
}

func (s *GRPCServer) GetQuotaUsage(ctx context.Context, req *pb.GetQuotaUsageRequest) (*pb.GetQuotaUsageResponse, error) {
	u, err := s.quotas.Usage(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, s.fail(ctx, "GetQuotaUsage", err)
	}
	return &pb.GetQuotaUsageResponse{UsedBytes: u.UsedBytes, MaxBytes: u.MaxBytes}, nil
}

func (s *GRPCServer) GetSubscription(ctx context.Context, req *pb.GetSubscriptionRequest) (*pb.GetSubscriptionResponse, error) {
	sub, err := s.access.GetSubscription(ctx, userIDFrom(ctx), req.SubscriptionID)
	if err != nil {
		return nil, s.fail(ctx, "GetSubscription", err)
	}
	return &pb.GetSubscriptionResponse{Subscription: subscriptionToPB(sub)}, nil
}

func (s *GRPCServer) ListSubscriptions(ctx context.Context, req *pb.ListSubscriptionsRequest) (*pb.ListSubscriptionsResponse, error) {
	subs, p, err := s.access.ListSubscriptions(ctx, userIDFrom(ctx), req.ShopID, pageFromPB(req.Pagination))
	if err != nil {
		return nil, s.fail(ctx, "ListSubscriptions", err)
	}
	return &pb.ListSubscriptionsResponse{Subscriptions: subscriptionsToPB(subs), Pagination: paginationToPB(p)}, nil
}
