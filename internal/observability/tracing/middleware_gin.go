package tracing

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	obslogger "github.com/smallbiznis/retailerp/internal/observability/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "retailerp/http"

// GinMiddleware opens a server span per request. It expects the logger
// middleware to have assigned the request id already.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		method := strings.ToUpper(c.Request.Method)

		ctx, span := tracer.Start(ctx, method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		span.SetName(method + " " + route)

		attrs := []attribute.KeyValue{
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		}
		if orderNo := c.GetString(obslogger.KeyOrderNo); orderNo != "" {
			attrs = append(attrs, attribute.String("order.no", orderNo))
		}
		if code := c.GetString(obslogger.KeyCheckoutCode); code != "" {
			attrs = append(attrs, attribute.String("checkout.code", code))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		if status < http.StatusInternalServerError {
			return
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			if safeErr := SafeError(lastErr.Err); safeErr != nil {
				span.RecordError(safeErr)
			}
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
