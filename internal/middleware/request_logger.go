package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/logger"
)

// maxLoggedBody caps how much of a request body reaches the debug log
const maxLoggedBody = 2048

// RequestLogger logs every request once it completes. Request bodies are
// only captured when debug logging is on.
func RequestLogger() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		// Skip logging for health checks
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()

		if log.IsDebug() && c.Request.Body != nil && !isMultipart(c) {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			if len(bodyBytes) > maxLoggedBody {
				bodyBytes = bodyBytes[:maxLoggedBody]
			}
			log.Debug("request",
				"request_id", GetRequestID(c),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"query", c.Request.URL.RawQuery,
				"body", string(bodyBytes),
			)
		}

		c.Next()

		status := c.Writer.Status()
		args := []interface{}{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"size", c.Writer.Size(),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= 500:
			log.Error("response", args...)
		case status >= 400:
			log.Warn("response", args...)
		default:
			log.Info("response", args...)
		}
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// ErrorLogger logs errors attached to the gin context
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logger.Error("Request error", []logger.Field{
				logger.String("request_id", GetRequestID(c)),
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Err("error", err.Err),
				logger.Uint("type", uint(err.Type)),
			})
		}
	}
}
