package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Quota comes before
// transient: a quota breach whose cleanup failed carries both.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrQuotaExceeded):
		return status.Error(codes.OutOfRange, "quota")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "token expired")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrTransient):
		return status.Error(codes.Unavailable, "temporarily unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	return status.Error(codes.Internal, "internal error")
}

// fail logs err and converts it. Caller mistakes are logged at debug level.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	switch status.Code(st) {
	case codes.Internal, codes.Unavailable:
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	default:
		s.logger.Debug(ctx, "request rejected", "method", method, "error", err)
	}
	return st
}
