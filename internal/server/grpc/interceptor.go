package grpc

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/api/mediav1"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const UserIDKey ctxKey = "userID"

// userIDFrom returns the authenticated caller, or "" for anonymous calls.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// anonymousAllowed lists methods that run without a valid token.
var anonymousAllowed = map[string]bool{
	mediav1.ListAccessibleAssetsFullMethod: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !strings.HasPrefix(info.FullMethod, "/"+mediav1.ServiceName+"/") {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}

	optional := anonymousAllowed[info.FullMethod]

	if len(accessToken) == 0 {
		if optional {
			return handler(ctx, req)
		}
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.VerifyToken(accessToken, s.jwtSecret)
	if err != nil {
		if optional {
			return handler(ctx, req)
		}
		return nil, toStatus(err)
	}

	ctx = context.WithValue(ctx, UserIDKey, userID)

	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.RecordRPC(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start).Seconds())
	return resp, err
}
