// Package server wires the media server together: database, object store,
// access cache, services, the gRPC endpoint, the ops HTTP endpoint and the
// event subscriber. It also handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/accesscache"
	"github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/dmitrijs2005/gophmedia/internal/server/database"
	"github.com/dmitrijs2005/gophmedia/internal/server/events"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmedia/internal/server/services"
	"github.com/dmitrijs2005/gophmedia/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/gophmedia/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *database.DB
	redis      *redis.Client
	registry   *prometheus.Registry
	grpc       *gs.GRPCServer
	subscriber *events.Subscriber
	source     events.Source
}

// NewApp connects every backing service and builds the server. Whatever was
// opened is closed again when a later step fails.
func NewApp(ctx context.Context, c *config.Config) (_ *App, err error) {

	logger := logging.New(c.LogLevel, c.LogFormat)

	app := &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close(context.Background())
		}
	}()

	app.db, err = database.Open(ctx, c.DatabaseDSN, c.DatabaseMaxConns)
	if err != nil {
		return nil, err
	}

	rm := &repomanager.PostgresRepositoryManager{}
	if err = rm.RunMigrations(ctx, app.db.SQL); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store, err := storage.NewS3Store(ctx, storage.S3Options{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		PresignTTL:   c.PresignTTL,
	})
	if err != nil {
		return nil, err
	}

	var cache accesscache.Cache = accesscache.Nop{}
	if c.RedisAddr != "" {
		app.redis = accesscache.NewClient(c.RedisAddr)
		cache = accesscache.NewRedisCache(app.redis, c.AccessCacheTTL)
	} else {
		logger.Warn(ctx, "no redis configured, access checks go to the database")
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mt := metrics.New(app.registry)

	quotas := services.NewQuotaService(app.db.SQL, rm, c)
	access := services.NewAccessService(app.db.SQL, rm, cache, c.AccessCacheTTL, logger)
	svc := gs.Services{
		Assets:   services.NewAssetService(app.db.SQL, rm, store, quotas, access, mt, logger),
		Uploads:  services.NewUploadService(app.db.SQL, rm, store, quotas, mt, logger),
		Ordering: services.NewOrderingService(app.db.SQL, rm, mt, logger),
		Quotas:   quotas,
		Access:   access,
	}
	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, mt, c.SecretKey, c.MaxMessageSizeBytes)

	app.source, err = newSource(c, mt, logger)
	if err != nil {
		return nil, err
	}
	app.subscriber = events.NewSubscriber(app.db.SQL, rm, cache, mt, logger)

	return app, nil
}

// newSource picks the event bus named by c.BusDriver.
func newSource(c *config.Config, mt *metrics.Metrics, logger logging.Logger) (events.Source, error) {
	switch c.BusDriver {
	case config.BusNATS:
		src, err := events.DialNATS(c.NATSURL, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.BusKafka:
		if len(c.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("%w: no kafka brokers", common.ErrorInvalidArgument)
		}
		return events.NewKafkaSource(c.KafkaBrokers, mt, logger), nil
	}
	return nil, fmt.Errorf("%w: bus driver %q", common.ErrorInvalidArgument, c.BusDriver)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startOpsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           metrics.NewRouter(app.registry, app.db.Ping),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Warn(ctx, "ops server shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting ops HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "ops server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startSubscriber(ctx context.Context) {
	app.subscriber.Run(ctx, app.source)
	app.logger.Info(ctx, "event subscriber stopped")
}

// Run serves until a signal arrives or a server fails, then releases every
// resource.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startOpsServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startSubscriber(ctx)
	}()

	wg.Wait()

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.source != nil {
		if err := app.source.Close(); err != nil {
			app.logger.Warn(ctx, "close event source failed", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "close redis failed", "error", err)
		}
	}
	if app.db != nil {
		app.db.Close()
	}
}
