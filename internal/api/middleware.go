package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vitals-service/internal/logging"
	"vitals-service/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

func RequestLoggingMiddleware(logger *logging.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, status, latency)
		logger.WithField("request_id", requestID).Infof("Request: %s %s, Status: %d, Latency: %v", method, path, status, latency)
	}
}
