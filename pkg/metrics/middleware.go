package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Gin Middleware
// =============================================================================

// GinPrometheusMiddleware собирает HTTP метрики роутера: счётчик запросов,
// гистограмму длительности и число активных запросов.
// Служебные /metrics и /health в метрики не попадают.
func GinPrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPath := c.Request.URL.Path
		if rawPath == "/metrics" || rawPath == "/health" {
			c.Next()
			return
		}

		start := time.Now()

		HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
		defer HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := normalizePath(rawPath)

		HttpRequestsTotal.WithLabelValues(serviceName, c.Request.Method, path, status).Inc()
		HttpRequestDuration.WithLabelValues(serviceName, c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// normalizePath ограничивает кардинальность метки path.
// У мониторингового роутера пути фиксированы, достаточно обрезать длину.
func normalizePath(path string) string {
	if len(path) > 100 {
		path = path[:100]
	}
	return path
}
