package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liuwen/marketplace/pkg/metrics"
)

// Metrics HTTP请求指标中间件，按路由模板打点避免高基数标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		metrics.DecGauge(metrics.HTTPRequestsInProgress)

		// FullPath为空说明路由未匹配（404），归并为一个标签值
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		labels := map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, labels)
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
