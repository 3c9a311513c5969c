package middleware

import (
  "strconv"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/serviceconnect/serviceconnect-backend/internal/metrics"
)

// RequestMetrics counts requests and observes latency per route template.
// Unmatched routes share the "unmatched" path label.
func RequestMetrics() gin.HandlerFunc {
  return func(c *gin.Context) {
    start := time.Now()
    c.Next()

    path := c.FullPath()
    if path == "" {
      path = "unmatched"
    }
    method := c.Request.Method
    metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
    metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
  }
}
