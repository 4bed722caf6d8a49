package grpc

import (
	"context"
	"testing"
	"time"

	pb "github.com/dmitrijs2005/gophmedia/internal/api/mediav1"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/auth"
	"github.com/dmitrijs2005/gophmedia/internal/server/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(secret string) *GRPCServer {
	return &GRPCServer{
		logger:    nopLogger{},
		jwtSecret: []byte(secret),
	}
}

func tokenContext(token string) context.Context {
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_OtherService_AllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: pb.CreateAssetFullMethod}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: pb.DownloadAssetFullMethod}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(tokenContext("not-a-valid-jwt"), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer("secret")

	token, err := auth.IssueToken("user-1", []byte("secret"), -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: pb.GetAssetFullMethod}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called for expired token")
		return nil, nil
	}

	_, err = s.accessTokenInterceptor(tokenContext(token), nil, info, h)
	if status.Code(err) != codes.Unauthenticated || status.Convert(err).Message() != "token expired" {
		t.Fatalf("expected expired Unauthenticated, got %v", err)
	}
}

func TestInterceptor_ValidToken_SetsUserID(t *testing.T) {
	secret := "super-secret"
	s := newTestServer(secret)

	userID := "user-123"
	token, err := auth.IssueToken(userID, []byte(secret), time.Hour)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	info := &grpc.UnaryServerInfo{FullMethod: pb.ListAssetsFullMethod}

	var gotFromCtx any
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		gotFromCtx = ctx.Value(UserIDKey)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(tokenContext(token), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if gotFromCtx != userID {
		t.Fatalf("user id not propagated in context: got %v want %v", gotFromCtx, userID)
	}
}

func TestInterceptor_ListAccessible_ToleratesBadOrMissingToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: pb.ListAccessibleAssetsFullMethod}

	for name, ctx := range map[string]context.Context{
		"missing": context.Background(),
		"invalid": tokenContext("garbage"),
	} {
		var user string
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			user = userIDFrom(ctx)
			return "ok", nil
		}
		if _, err := s.accessTokenInterceptor(ctx, nil, info, h); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if user != "" {
			t.Fatalf("%s: expected anonymous caller, got %q", name, user)
		}
	}
}

func TestMetricsInterceptor_RecordsCode(t *testing.T) {
	s := newTestServer("secret")
	s.metrics = metrics.New(prometheus.NewRegistry())

	info := &grpc.UnaryServerInfo{FullMethod: pb.DeleteAssetFullMethod}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "not found")
	}

	if _, err := s.metricsInterceptor(context.Background(), nil, info, h); status.Code(err) != codes.NotFound {
		t.Fatalf("error should pass through, got %v", err)
	}
	if n := testutil.CollectAndCount(s.metrics.RPCDuration, "gophmedia_rpc_duration_seconds"); n != 1 {
		t.Fatalf("expected one series, got %d", n)
	}
}
