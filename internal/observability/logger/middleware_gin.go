package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	"go.uber.org/zap"
)

// Gin context keys handlers set so the request line carries checkout details.
const (
	KeyOrderNo      = "order_no"
	KeyCheckoutCode = "checkout_code"
)

const headerRequestID = "X-Request-Id"

type MiddlewareConfig struct {
	Debug bool
	// ErrorClassifier maps the last handler error to (type, code).
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware logs one http_request line per request and seeds the
// request id into the context.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		route := strings.TrimSpace(c.FullPath())
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if route == "unmatched" {
			fields = append(fields, zap.String("path", c.Request.URL.Path))
		}
		if orderNo := strings.TrimSpace(c.GetString(KeyOrderNo)); orderNo != "" {
			fields = append(fields, zap.String("order_no", orderNo))
		}

		outcome := strings.TrimSpace(c.GetString(KeyCheckoutCode))
		if outcome != "" {
			fields = append(fields, zap.String("checkout_code", outcome))
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			errorType, errorCode := "error", ""
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if cfg.Debug && status >= http.StatusInternalServerError {
				fields = append(fields, zap.Error(lastErr.Err))
			}
		}

		// FromContext picks up the cashier set further down the chain.
		logRequest(FromContext(c.Request.Context()), route, status, fields)
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
	if requestID == "" || len(requestID) > 128 {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header(headerRequestID, requestID)
	return requestID
}

func logRequest(log *zap.Logger, route string, status int, fields []zap.Field) {
	if log == nil {
		return
	}

	switch {
	case status >= http.StatusInternalServerError:
		log.Error("http_request", fields...)
	case route == "/metrics" || route == "/health":
		log.Debug("http_request", fields...)
	case status >= http.StatusBadRequest && route != "/api/orders":
		// rejected checkouts are routine at a till; other 4xx deserve a look
		log.Warn("http_request", fields...)
	default:
		log.Info("http_request", fields...)
	}
}
