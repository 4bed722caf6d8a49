// Package logging is the structured logger every server component takes.
// The only production implementation is backed by log/slog (see New).
package logging

import "context"

// Logger writes leveled records. Args are alternating keys and values:
//
//	log.Info(ctx, "asset created", "asset_id", id, "size", size)
//
// The context is passed through to the handler so request-scoped values
// can be attached later.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every record of the returned logger.
	With(args ...any) Logger
}
