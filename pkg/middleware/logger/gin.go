package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const TraceHeader = "X-Trace-Id"

// LogWithWriter writes one access line per request.
func LogWithWriter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		traceID := "-"
		if sc := trace.SpanContextFromContext(ctx.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
			ctx.Header(TraceHeader, traceID)
		}

		ctx.Next()

		status := ctx.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			Errorf(ctx, "[GIN] %d | %v | %s | %s %s | %s | %s", status, latency, ctx.ClientIP(), ctx.Request.Method, path, traceID, ctx.Errors.String())
		case status >= 400:
			Warnf(ctx, "[GIN] %d | %v | %s | %s %s | %s", status, latency, ctx.ClientIP(), ctx.Request.Method, path, traceID)
		default:
			Infof(ctx, "[GIN] %d | %v | %s | %s %s | %s", status, latency, ctx.ClientIP(), ctx.Request.Method, path, traceID)
		}
	}
}
