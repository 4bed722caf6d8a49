// Command server runs the media asset service: the gRPC API, the ops HTTP
// endpoint and the marketplace event subscriber.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/gophmedia/internal/server"
	"github.com/dmitrijs2005/gophmedia/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(context.Background(), cfg)
	if err != nil {
		slog.Error("startup failed", "error", err, "grpc_addr", cfg.EndpointAddrGRPC)
		os.Exit(1)
	}

	app.Run(context.Background())
}
