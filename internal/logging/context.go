package logging

import (
	"context"
	"log/slog"
	"time"
)

type ctxLoggerKey struct{}

// With returns a new context with logger
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From returns logger from context. If logger is not set, return default logger
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return Default()
}

type ctxTimeKey struct{}
type TimeFunc func() time.Time

// CtxTime returns time from context. If time is not set, return current time
func CtxTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ctxTimeKey{}).(TimeFunc); ok {
		return t()
	}
	return time.Now()
}

// CtxWithTime returns a new context with time function
func CtxWithTime(ctx context.Context, timeFunc TimeFunc) context.Context {
	return context.WithValue(ctx, ctxTimeKey{}, timeFunc)
}

// Detach returns a background context carrying the logger and time function of src.
//
// Scans run on a detached context so that the caller returning (or an MCP request
// finishing) does not cancel work that has already started.
func Detach(src context.Context) context.Context {
	dst := context.Background()
	if l, ok := src.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		dst = With(dst, l)
	}
	if timeFunc, ok := src.Value(ctxTimeKey{}).(TimeFunc); ok {
		dst = CtxWithTime(dst, timeFunc)
	}
	return dst
}
