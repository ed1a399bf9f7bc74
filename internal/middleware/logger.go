package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nrednav/cuid2"
)

// RequestIDHeader 是請求 ID 的 HTTP 標頭
const RequestIDHeader = "X-Request-ID"

// RequestLogger 為每個請求指派 ID 並在完成後記錄狀態碼與耗時
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = cuid2.Generate()
		}
		c.Set("requestID", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		attrs := []any{
			"request_id", reqID,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"bytes_sent", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		msg := c.Request.Method + " " + c.Request.URL.Path
		switch {
		case c.Writer.Status() >= 500:
			logger.Error(msg, attrs...)
		case c.Writer.Status() >= 400:
			logger.Warn(msg, attrs...)
		default:
			logger.Info(msg, attrs...)
		}
	}
}
