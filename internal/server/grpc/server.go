// Package grpc exposes the media services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophmedia/internal/api/mediav1"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/dmitrijs2005/gophmedia/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type assetSvc interface {
	Create(ctx context.Context, userID string, in services.CreateAssetInput) (*models.Asset, error)
	Get(ctx context.Context, userID, id string) (*models.Asset, error)
	List(ctx context.Context, userID, shopID string, page *models.Page,
		filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, *models.Pagination, error)
	ListAccessible(ctx context.Context, userID string, page *models.Page,
		filter *models.AssetFilter, order *models.AssetOrder) ([]*models.Asset, *models.Pagination, error)
	Update(ctx context.Context, userID, id string, in services.UpdateAssetInput) (*models.Asset, error)
	Delete(ctx context.Context, userID, id string) error
	DownloadURL(ctx context.Context, userID, id string) (string, error)
}

type uploadSvc interface {
	Initiate(ctx context.Context, userID, assetID, contentType string) (*models.MultipartUpload, error)
	PutChunk(ctx context.Context, userID, assetID, uploadID string, partNumber int32, chunk []byte) (*models.PartTag, error)
	Complete(ctx context.Context, userID, assetID, uploadID string, parts []models.PartTag) error
}

type orderingSvc interface {
	Attach(ctx context.Context, userID, assetID, offerID string, ordering *int64) (int64, error)
	Reorder(ctx context.Context, userID, assetID, offerID string, newOrdering int64) error
	Detach(ctx context.Context, userID, assetID, offerID string) error
}

type quotaSvc interface {
	CheckQuota(ctx context.Context, userID string) error
	Usage(ctx context.Context, userID string) (*models.QuotaUsage, error)
}

type accessSvc interface {
	GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, userID, shopID string, page *models.Page) ([]*models.Subscription, *models.Pagination, error)
}

// Services bundles what the gRPC server dispatches to.
type Services struct {
	Assets   *services.AssetService
	Uploads  *services.UploadService
	Ordering *services.OrderingService
	Quotas   *services.QuotaService
	Access   *services.AccessService
}

type GRPCServer struct {
	mediav1.UnimplementedMediaServiceServer
	address        string
	assets         assetSvc
	uploads        uploadSvc
	ordering       orderingSvc
	quotas         quotaSvc
	access         accessSvc
	logger         logging.Logger
	metrics        *metrics.Metrics
	jwtSecret      []byte
	maxMessageSize int
}

func NewGRPCServer(a string, l logging.Logger, svc Services, mt *metrics.Metrics, secretKey string, maxMessageSize int) *GRPCServer {
	return &GRPCServer{
		address:        a,
		logger:         l.With("module", "grpc_server"),
		assets:         svc.Assets,
		uploads:        svc.Uploads,
		ordering:       svc.Ordering,
		quotas:         svc.Quotas,
		access:         svc.Access,
		metrics:        mt,
		jwtSecret:      []byte(secretKey),
		maxMessageSize: maxMessageSize,
	}
}

// newServer builds the grpc.Server with the media and health services
// registered.
func (s *GRPCServer) newServer() *grpc.Server {
	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor),
	}
	if s.maxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(s.maxMessageSize),
			grpc.MaxSendMsgSize(s.maxMessageSize))
	}
	srv := grpc.NewServer(opts...)

	mediav1.RegisterMediaServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(mediav1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
