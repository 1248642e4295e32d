package middleware

import (
	"time"

	"github.com/Dhoini/customer-service/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records every request under its route template. Unmatched
// requests are grouped under "unmatched".
func Metrics(m metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
