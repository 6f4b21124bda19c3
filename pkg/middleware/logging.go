package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NithinKS007/PDF-extractor-server/pkg/logger"
	"github.com/NithinKS007/PDF-extractor-server/pkg/metrics"
)

// RequestLogger writes one line per completed request and records its
// latency under the matched route template.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		fields := logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": elapsed.String(),
			"bytes":    c.Writer.Size(),
			"ip":       c.ClientIP(),
		}
		if id := UserID(c); id != "" {
			fields["user"] = id
		}
		logger.Infow("request completed", fields)
	}
}
