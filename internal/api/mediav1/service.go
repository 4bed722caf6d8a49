package mediav1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophmedia.media.v1.MediaService"

// Full method names, as seen by interceptors.
const (
	CreateAssetFullMethod              = "/" + ServiceName + "/CreateAsset"
	GetAssetFullMethod                 = "/" + ServiceName + "/GetAsset"
	ListAssetsFullMethod               = "/" + ServiceName + "/ListAssets"
	UpdateAssetFullMethod              = "/" + ServiceName + "/UpdateAsset"
	DeleteAssetFullMethod              = "/" + ServiceName + "/DeleteAsset"
	DownloadAssetFullMethod            = "/" + ServiceName + "/DownloadAsset"
	ListAccessibleAssetsFullMethod     = "/" + ServiceName + "/ListAccessibleAssets"
	InitiateMultipartUploadFullMethod  = "/" + ServiceName + "/InitiateMultipartUpload"
	PutMultipartChunkFullMethod        = "/" + ServiceName + "/PutMultipartChunk"
	CompleteMultipartUploadFullMethod  = "/" + ServiceName + "/CompleteMultipartUpload"
	AddAssetToOfferFullMethod          = "/" + ServiceName + "/AddAssetToOffer"
	UpdateAssetOfferOrderingFullMethod = "/" + ServiceName + "/UpdateAssetOfferOrdering"
	RemoveAssetFromOfferFullMethod     = "/" + ServiceName + "/RemoveAssetFromOffer"
	CheckQuotaFullMethod               = "/" + ServiceName + "/CheckQuota"
	GetQuotaUsageFullMethod            = "/" + ServiceName + "/GetQuotaUsage"
	GetSubscriptionFullMethod          = "/" + ServiceName + "/GetSubscription"
	ListSubscriptionsFullMethod        = "/" + ServiceName + "/ListSubscriptions"
)

// MediaServiceServer is the server API of the media service.
type MediaServiceServer interface {
	CreateAsset(context.Context, *CreateAssetRequest) (*CreateAssetResponse, error)
	GetAsset(context.Context, *GetAssetRequest) (*GetAssetResponse, error)
	ListAssets(context.Context, *ListAssetsRequest) (*ListAssetsResponse, error)
	UpdateAsset(context.Context, *UpdateAssetRequest) (*UpdateAssetResponse, error)
	DeleteAsset(context.Context, *DeleteAssetRequest) (*DeleteAssetResponse, error)
	DownloadAsset(context.Context, *DownloadAssetRequest) (*DownloadAssetResponse, error)
	ListAccessibleAssets(context.Context, *ListAccessibleAssetsRequest) (*ListAccessibleAssetsResponse, error)
	InitiateMultipartUpload(context.Context, *InitiateMultipartUploadRequest) (*InitiateMultipartUploadResponse, error)
	PutMultipartChunk(context.Context, *PutMultipartChunkRequest) (*PutMultipartChunkResponse, error)
	CompleteMultipartUpload(context.Context, *CompleteMultipartUploadRequest) (*CompleteMultipartUploadResponse, error)
	AddAssetToOffer(context.Context, *AddAssetToOfferRequest) (*AddAssetToOfferResponse, error)
	UpdateAssetOfferOrdering(context.Context, *UpdateAssetOfferOrderingRequest) (*UpdateAssetOfferOrderingResponse, error)
	RemoveAssetFromOffer(context.Context, *RemoveAssetFromOfferRequest) (*RemoveAssetFromOfferResponse, error)
	CheckQuota(context.Context, *CheckQuotaRequest) (*CheckQuotaResponse, error)
	GetQuotaUsage(context.Context, *GetQuotaUsageRequest) (*GetQuotaUsageResponse, error)
	GetSubscription(context.Context, *GetSubscriptionRequest) (*GetSubscriptionResponse, error)
	ListSubscriptions(context.Context, *ListSubscriptionsRequest) (*ListSubscriptionsResponse, error)
}

// UnimplementedMediaServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedMediaServiceServer struct{}

func (UnimplementedMediaServiceServer) CreateAsset(context.Context, *CreateAssetRequest) (*CreateAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAsset not implemented")
}
func (UnimplementedMediaServiceServer) GetAsset(context.Context, *GetAssetRequest) (*GetAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAsset not implemented")
}
func (UnimplementedMediaServiceServer) ListAssets(context.Context, *ListAssetsRequest) (*ListAssetsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAssets not implemented")
}
func (UnimplementedMediaServiceServer) UpdateAsset(context.Context, *UpdateAssetRequest) (*UpdateAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAsset not implemented")
}
func (UnimplementedMediaServiceServer) DeleteAsset(context.Context, *DeleteAssetRequest) (*DeleteAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAsset not implemented")
}
func (UnimplementedMediaServiceServer) DownloadAsset(context.Context, *DownloadAssetRequest) (*DownloadAssetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DownloadAsset not implemented")
}
func (UnimplementedMediaServiceServer) ListAccessibleAssets(context.Context, *ListAccessibleAssetsRequest) (*ListAccessibleAssetsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAccessibleAssets not implemented")
}
func (UnimplementedMediaServiceServer) InitiateMultipartUpload(context.Context, *InitiateMultipartUploadRequest) (*InitiateMultipartUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InitiateMultipartUpload not implemented")
}
func (UnimplementedMediaServiceServer) PutMultipartChunk(context.Context, *PutMultipartChunkRequest) (*PutMultipartChunkResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PutMultipartChunk not implemented")
}
func (UnimplementedMediaServiceServer) CompleteMultipartUpload(context.Context, *CompleteMultipartUploadRequest) (*CompleteMultipartUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteMultipartUpload not implemented")
}
func (UnimplementedMediaServiceServer) AddAssetToOffer(context.Context, *AddAssetToOfferRequest) (*AddAssetToOfferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddAssetToOffer not implemented")
}
func (UnimplementedMediaServiceServer) UpdateAssetOfferOrdering(context.Context, *UpdateAssetOfferOrderingRequest) (*UpdateAssetOfferOrderingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAssetOfferOrdering not implemented")
}
func (UnimplementedMediaServiceServer) RemoveAssetFromOffer(context.Context, *RemoveAssetFromOfferRequest) (*RemoveAssetFromOfferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveAssetFromOffer not implemented")
}
func (UnimplementedMediaServiceServer) CheckQuota(context.Context, *CheckQuotaRequest) (*CheckQuotaResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckQuota not implemented")
}
func (UnimplementedMediaServiceServer) GetQuotaUsage(context.Context, *GetQuotaUsageRequest) (*GetQuotaUsageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetQuotaUsage not implemented")
}
func (UnimplementedMediaServiceServer) GetSubscription(context.Context, *GetSubscriptionRequest) (*GetSubscriptionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSubscription not implemented")
}
func (UnimplementedMediaServiceServer) ListSubscriptions(context.Context, *ListSubscriptionsRequest) (*ListSubscriptionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSubscriptions not implemented")
}

func RegisterMediaServiceServer(s grpc.ServiceRegistrar, srv MediaServiceServer) {
	s.RegisterService(&MediaService_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string,
	call func(MediaServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MediaServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MediaServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MediaService_ServiceDesc describes the media service for grpc.Server.
var MediaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MediaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAsset", Handler: unaryHandler(CreateAssetFullMethod, MediaServiceServer.CreateAsset)},
		{MethodName: "GetAsset", Handler: unaryHandler(GetAssetFullMethod, MediaServiceServer.GetAsset)},
		{MethodName: "ListAssets", Handler: unaryHandler(ListAssetsFullMethod, MediaServiceServer.ListAssets)},
		{MethodName: "UpdateAsset", Handler: unaryHandler(UpdateAssetFullMethod, MediaServiceServer.UpdateAsset)},
		{MethodName: "DeleteAsset", Handler: unaryHandler(DeleteAssetFullMethod, MediaServiceServer.DeleteAsset)},
		{MethodName: "DownloadAsset", Handler: unaryHandler(DownloadAssetFullMethod, MediaServiceServer.DownloadAsset)},
		{MethodName: "ListAccessibleAssets", Handler: unaryHandler(ListAccessibleAssetsFullMethod, MediaServiceServer.ListAccessibleAssets)},
		{MethodName: "InitiateMultipartUpload", Handler: unaryHandler(InitiateMultipartUploadFullMethod, MediaServiceServer.InitiateMultipartUpload)},
		{MethodName: "PutMultipartChunk", Handler: unaryHandler(PutMultipartChunkFullMethod, MediaServiceServer.PutMultipartChunk)},
		{MethodName: "CompleteMultipartUpload", Handler: unaryHandler(CompleteMultipartUploadFullMethod, MediaServiceServer.CompleteMultipartUpload)},
		{MethodName: "AddAssetToOffer", Handler: unaryHandler(AddAssetToOfferFullMethod, MediaServiceServer.AddAssetToOffer)},
		{MethodName: "UpdateAssetOfferOrdering", Handler: unaryHandler(UpdateAssetOfferOrderingFullMethod, MediaServiceServer.UpdateAssetOfferOrdering)},
		{MethodName: "RemoveAssetFromOffer", Handler: unaryHandler(RemoveAssetFromOfferFullMethod, MediaServiceServer.RemoveAssetFromOffer)},
		{MethodName: "CheckQuota", Handler: unaryHandler(CheckQuotaFullMethod, MediaServiceServer.CheckQuota)},
		{MethodName: "GetQuotaUsage", Handler: unaryHandler(GetQuotaUsageFullMethod, MediaServiceServer.GetQuotaUsage)},
		{MethodName: "GetSubscription", Handler: unaryHandler(GetSubscriptionFullMethod, MediaServiceServer.GetSubscription)},
		{MethodName: "ListSubscriptions", Handler: unaryHandler(ListSubscriptionsFullMethod, MediaServiceServer.ListSubscriptions)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophmedia/media/v1/media.json",
}

// MediaServiceClient is the client API of the media service. Calls use the
// JSON codec.
type MediaServiceClient interface {
	CreateAsset(ctx context.Context, in *CreateAssetRequest, opts ...grpc.CallOption) (*CreateAssetResponse, error)
	GetAsset(ctx context.Context, in *GetAssetRequest, opts ...grpc.CallOption) (*GetAssetResponse, error)
	ListAssets(ctx context.Context, in *ListAssetsRequest, opts ...grpc.CallOption) (*ListAssetsResponse, error)
	UpdateAsset(ctx context.Context, in *UpdateAssetRequest, opts ...grpc.CallOption) (*UpdateAssetResponse, error)
	DeleteAsset(ctx context.Context, in *DeleteAssetRequest, opts ...grpc.CallOption) (*DeleteAssetResponse, error)
	DownloadAsset(ctx context.Context, in *DownloadAssetRequest, opts ...grpc.CallOption) (*DownloadAssetResponse, error)
	ListAccessibleAssets(ctx context.Context, in *ListAccessibleAssetsRequest, opts ...grpc.CallOption) (*ListAccessibleAssetsResponse, error)
	InitiateMultipartUpload(ctx context.Context, in *InitiateMultipartUploadRequest, opts ...grpc.CallOption) (*InitiateMultipartUploadResponse, error)
	PutMultipartChunk(ctx context.Context, in *PutMultipartChunkRequest, opts ...grpc.CallOption) (*PutMultipartChunkResponse, error)
	CompleteMultipartUpload(ctx context.Context, in *CompleteMultipartUploadRequest, opts ...grpc.CallOption) (*CompleteMultipartUploadResponse, error)
	AddAssetToOffer(ctx context.Context, in *AddAssetToOfferRequest, opts ...grpc.CallOption) (*AddAssetToOfferResponse, error)
	UpdateAssetOfferOrdering(ctx context.Context, in *UpdateAssetOfferOrderingRequest, opts ...grpc.CallOption) (*UpdateAssetOfferOrderingResponse, error)
	RemoveAssetFromOffer(ctx context.Context, in *RemoveAssetFromOfferRequest, opts ...grpc.CallOption) (*RemoveAssetFromOfferResponse, error)
	CheckQuota(ctx context.Context, in *CheckQuotaRequest, opts ...grpc.CallOption) (*CheckQuotaResponse, error)
	GetQuotaUsage(ctx context.Context, in *GetQuotaUsageRequest, opts ...grpc.CallOption) (*GetQuotaUsageResponse, error)
	GetSubscription(ctx context.Context, in *GetSubscriptionRequest, opts ...grpc.CallOption) (*GetSubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, in *ListSubscriptionsRequest, opts ...grpc.CallOption) (*ListSubscriptionsResponse, error)
}

type mediaServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMediaServiceClient(cc grpc.ClientConnInterface) MediaServiceClient {
	return &mediaServiceClient{cc: cc}
}

func (c *mediaServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *mediaServiceClient) CreateAsset(ctx context.Context, in *CreateAssetRequest, opts ...grpc.CallOption) (*CreateAssetResponse, error) {
	out := new(CreateAssetResponse)
	if err := c.invoke(ctx, CreateAssetFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) GetAsset(ctx context.Context, in *GetAssetRequest, opts ...grpc.CallOption) (*GetAssetResponse, error) {
	out := new(GetAssetResponse)
	if err := c.invoke(ctx, GetAssetFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) ListAssets(ctx context.Context, in *ListAssetsRequest, opts ...grpc.CallOption) (*ListAssetsResponse, error) {
	out := new(ListAssetsResponse)
	if err := c.invoke(ctx, ListAssetsFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) UpdateAsset(ctx context.Context, in *UpdateAssetRequest, opts ...grpc.CallOption) (*UpdateAssetResponse, error) {
	out := new(UpdateAssetResponse)
	if err := c.invoke(ctx, UpdateAssetFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) DeleteAsset(ctx context.Context, in *DeleteAssetRequest, opts ...grpc.CallOption) (*DeleteAssetResponse, error) {
	out := new(DeleteAssetResponse)
	if err := c.invoke(ctx, DeleteAssetFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) DownloadAsset(ctx context.Context, in *DownloadAssetRequest, opts ...grpc.CallOption) (*DownloadAssetResponse, error) {
	out := new(DownloadAssetResponse)
	if err := c.invoke(ctx, DownloadAssetFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) ListAccessibleAssets(ctx context.Context, in *ListAccessibleAssetsRequest, opts ...grpc.CallOption) (*ListAccessibleAssetsResponse, error) {
	out := new(ListAccessibleAssetsResponse)
	if err := c.invoke(ctx, ListAccessibleAssetsFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) InitiateMultipartUpload(ctx context.Context, in *InitiateMultipartUploadRequest, opts ...grpc.CallOption) (*InitiateMultipartUploadResponse, error) {
	out := new(InitiateMultipartUploadResponse)
	if err := c.invoke(ctx, InitiateMultipartUploadFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) PutMultipartChunk(ctx context.Context, in *PutMultipartChunkRequest, opts ...grpc.CallOption) (*PutMultipartChunkResponse, error) {
	out := new(PutMultipartChunkResponse)
	if err := c.invoke(ctx, PutMultipartChunkFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) CompleteMultipartUpload(ctx context.Context, in *CompleteMultipartUploadRequest, opts ...grpc.CallOption) (*CompleteMultipartUploadResponse, error) {
	out := new(CompleteMultipartUploadResponse)
	if err := c.invoke(ctx, CompleteMultipartUploadFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) AddAssetToOffer(ctx context.Context, in *AddAssetToOfferRequest, opts ...grpc.CallOption) (*AddAssetToOfferResponse, error) {
	out := new(AddAssetToOfferResponse)
	if err := c.invoke(ctx, AddAssetToOfferFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) UpdateAssetOfferOrdering(ctx context.Context, in *UpdateAssetOfferOrderingRequest, opts ...grpc.CallOption) (*UpdateAssetOfferOrderingResponse, error) {
	out := new(UpdateAssetOfferOrderingResponse)
	if err := c.invoke(ctx, UpdateAssetOfferOrderingFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) RemoveAssetFromOffer(ctx context.Context, in *RemoveAssetFromOfferRequest, opts ...grpc.CallOption) (*RemoveAssetFromOfferResponse, error) {
	out := new(RemoveAssetFromOfferResponse)
	if err := c.invoke(ctx, RemoveAssetFromOfferFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) CheckQuota(ctx context.Context, in *CheckQuotaRequest, opts ...grpc.CallOption) (*CheckQuotaResponse, error) {
	out := new(CheckQuotaResponse)
	if err := c.invoke(ctx, CheckQuotaFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) GetQuotaUsage(ctx context.Context, in *GetQuotaUsageRequest, opts ...grpc.CallOption) (*GetQuotaUsageResponse, error) {
	out := new(GetQuotaUsageResponse)
	if err := c.invoke(ctx, GetQuotaUsageFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) GetSubscription(ctx context.Context, in *GetSubscriptionRequest, opts ...grpc.CallOption) (*GetSubscriptionResponse, error) {
	out := new(GetSubscriptionResponse)
	if err := c.invoke(ctx, GetSubscriptionFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mediaServiceClient) ListSubscriptions(ctx context.Context, in *ListSubscriptionsRequest, opts ...grpc.CallOption) (*ListSubscriptionsResponse, error) {
	out := new(ListSubscriptionsResponse)
	if err := c.invoke(ctx, ListSubscriptionsFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
