package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ownerKeyCtx struct{}

// WithOwner stores the document key of the owner being processed so that any
// logger derived with FromCtx carries it.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKeyCtx{}, owner)
}

// FromGin returns a request-scoped logger from gin.Context if present,
// otherwise returns the provided base logger.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get("logger"); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return withOwner(c.Request.Context(), lg)
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise attempts to enrich
// base with trace_id from context values. The owner key is appended in both cases.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value("logger").(*zap.SugaredLogger); ok && lg != nil {
		return withOwner(ctx, lg)
	}
	lg := base
	if tid, ok := ctx.Value("traceID").(string); ok && tid != "" {
		lg = lg.With("trace_id", tid)
	}
	return withOwner(ctx, lg)
}

func withOwner(ctx context.Context, lg *zap.SugaredLogger) *zap.SugaredLogger {
	if owner, ok := ctx.Value(ownerKeyCtx{}).(string); ok && owner != "" {
		return lg.With("owner", owner)
	}
	return lg
}
